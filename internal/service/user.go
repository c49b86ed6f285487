package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"driftline/internal/model"
	"driftline/internal/repository"
)

// birthdayLayout is the wire format for the birthday field.
const birthdayLayout = "2006-01-02"

// UserService handles account lifecycle. Account deletion cascades over
// everything the user authored or touched, decrementing the counters of
// surviving targets along the way.
type UserService struct {
	userRepo    repository.UserRepository
	followRepo  repository.FollowRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	likeRepo    repository.LikeRepository
	counterRepo repository.CounterRepository
	txRunner    repository.TxRunner
}

func NewUserService(
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	likeRepo repository.LikeRepository,
	counterRepo repository.CounterRepository,
	txRunner repository.TxRunner,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		followRepo:  followRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		counterRepo: counterRepo,
		txRunner:    txRunner,
	}
}

// Register creates a new account. Nicknames are unique case-insensitively;
// first name, last name and a YYYY-MM-DD birthday are all required.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if strings.TrimSpace(req.Nickname) == "" {
		return nil, fmt.Errorf("%w: nickname is required", model.ErrInvalidRegistration)
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, fmt.Errorf("%w: password is required", model.ErrInvalidRegistration)
	}
	if strings.TrimSpace(req.FirstName) == "" {
		return nil, fmt.Errorf("%w: first_name is required", model.ErrInvalidRegistration)
	}
	if strings.TrimSpace(req.LastName) == "" {
		return nil, fmt.Errorf("%w: last_name is required", model.ErrInvalidRegistration)
	}

	birthday, err := time.Parse(birthdayLayout, req.Birthday)
	if err != nil {
		return nil, fmt.Errorf("%w: birthday must be YYYY-MM-DD", model.ErrInvalidRegistration)
	}

	// Check first for a friendly error; the unique index still catches
	// races at insert time.
	exists, err := s.userRepo.ExistsByNickname(ctx, req.Nickname)
	if err != nil {
		return nil, fmt.Errorf("failed to check nickname: %w", err)
	}
	if exists {
		return nil, model.ErrNicknameExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Nickname:       req.Nickname,
		PasswordHashed: string(hashedPassword),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Birthday:       birthday,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("[UserService] Register: user=%d nickname=%s", user.ID, user.Nickname)
	return user, nil
}

// Login authenticates a user with nickname and password.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	user, err := s.userRepo.GetByNickname(ctx, req.Nickname)
	if err != nil {
		// Don't reveal whether the nickname exists or not
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHashed), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetByNickname retrieves a user by nickname, case-insensitively.
func (s *UserService) GetByNickname(ctx context.Context, nickname string) (*model.User, error) {
	return s.userRepo.GetByNickname(ctx, nickname)
}

// UpdateProfile edits the name and birthday fields of an account. Users
// may only edit themselves; nickname and password are not editable here.
func (s *UserService) UpdateProfile(ctx context.Context, requesterID, userID int64, req *model.UpdateProfileRequest) (*model.User, error) {
	if requesterID != userID {
		return nil, model.ErrNotAccountOwner
	}

	if strings.TrimSpace(req.FirstName) == "" {
		return nil, fmt.Errorf("%w: first_name is required", model.ErrInvalidProfile)
	}
	if strings.TrimSpace(req.LastName) == "" {
		return nil, fmt.Errorf("%w: last_name is required", model.ErrInvalidProfile)
	}
	birthday, err := time.Parse(birthdayLayout, req.Birthday)
	if err != nil {
		return nil, fmt.Errorf("%w: birthday must be YYYY-MM-DD", model.ErrInvalidProfile)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Birthday = birthday
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("[UserService] UpdateProfile: user=%d", userID)
	return user, nil
}

// Delete removes an account and everything attached to it in a single
// transaction. Users may only delete themselves. The cascade runs in
// three passes so counters on surviving targets end exact:
//
//  1. own posts, their full comment trees and all likes on either
//  2. remaining own comments with their reply subtrees, decrementing each
//     surviving parent target once per deleted root
//  3. remaining own likes, decrementing each surviving liked target
//
// Follow edges in both directions go last; refresh tokens ride the
// foreign key cascade on the user row.
func (s *UserService) Delete(ctx context.Context, requesterID, userID int64) error {
	if requesterID != userID {
		return model.ErrNotAccountOwner
	}

	err := s.txRunner.RunTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.deleteOwnPosts(ctx, tx, userID); err != nil {
			return err
		}
		if err := s.deleteOwnComments(ctx, tx, userID); err != nil {
			return err
		}
		if err := s.deleteOwnLikes(ctx, tx, userID); err != nil {
			return err
		}
		if err := s.followRepo.DeleteAllForUser(ctx, tx, userID); err != nil {
			return err
		}
		return s.userRepo.Delete(ctx, tx, userID)
	})
	if err != nil {
		return err
	}

	log.Printf("[UserService] Delete: user=%d", userID)
	return nil
}

// deleteOwnPosts removes the user's posts with their comment trees and
// all likes on either. Nothing survives that referenced these posts, so
// no counter updates are owed.
func (s *UserService) deleteOwnPosts(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	postIDs, err := s.postRepo.IDsByAuthor(ctx, tx, userID)
	if err != nil {
		return err
	}
	if len(postIDs) == 0 {
		return nil
	}

	var roots []int64
	for _, postID := range postIDs {
		ids, err := s.commentRepo.IDsByTarget(ctx, tx, model.PostTarget(postID))
		if err != nil {
			return err
		}
		roots = append(roots, ids...)
	}
	doomed, err := s.commentRepo.CollectSubtrees(ctx, tx, roots)
	if err != nil {
		return err
	}

	if _, err := s.likeRepo.DeleteByTargets(ctx, tx, model.TargetComment, doomed); err != nil {
		return err
	}
	if _, err := s.likeRepo.DeleteByTargets(ctx, tx, model.TargetPost, postIDs); err != nil {
		return err
	}
	if _, err := s.commentRepo.DeleteByIDs(ctx, tx, doomed); err != nil {
		return err
	}
	if _, err := s.postRepo.DeleteByIDs(ctx, tx, postIDs); err != nil {
		return err
	}
	return nil
}

// deleteOwnComments removes the user's remaining comments (those on other
// people's content) with their reply subtrees. Each root whose parent
// survives costs that parent one comment_count; roots hanging under
// another doomed comment owe nothing.
func (s *UserService) deleteOwnComments(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	rootIDs, err := s.commentRepo.IDsByAuthor(ctx, tx, userID)
	if err != nil {
		return err
	}
	if len(rootIDs) == 0 {
		return nil
	}

	roots, err := s.commentRepo.ListByIDs(ctx, tx, rootIDs)
	if err != nil {
		return err
	}

	doomed, err := s.commentRepo.CollectSubtrees(ctx, tx, rootIDs)
	if err != nil {
		return err
	}
	doomedSet := make(map[int64]struct{}, len(doomed))
	for _, id := range doomed {
		doomedSet[id] = struct{}{}
	}

	if _, err := s.likeRepo.DeleteByTargets(ctx, tx, model.TargetComment, doomed); err != nil {
		return err
	}
	if _, err := s.commentRepo.DeleteByIDs(ctx, tx, doomed); err != nil {
		return err
	}

	for i := range roots {
		parent := roots[i].Target()
		if parent.Kind == model.TargetComment {
			if _, gone := doomedSet[parent.ID]; gone {
				continue
			}
		}
		if err := s.counterRepo.Increment(ctx, tx, parent, model.CounterComments, -1); err != nil {
			return err
		}
	}
	return nil
}

// deleteOwnLikes removes the user's remaining likes. Likes on targets
// deleted earlier in the cascade are already gone, so every target seen
// here survives and gets its like_count decremented.
func (s *UserService) deleteOwnLikes(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	likes, err := s.likeRepo.ListByUser(ctx, tx, userID)
	if err != nil {
		return err
	}
	if len(likes) == 0 {
		return nil
	}

	if _, err := s.likeRepo.DeleteByUser(ctx, tx, userID); err != nil {
		return err
	}
	for i := range likes {
		if err := s.counterRepo.Increment(ctx, tx, likes[i].Target(), model.CounterLikes, -1); err != nil {
			return err
		}
	}
	return nil
}
