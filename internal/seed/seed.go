// Package seed populates a database with fake content for local development.
package seed

import (
	"fmt"
	"log"
	"math/rand"

	"chatter/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options controls how much content a seeding run creates.
type Options struct {
	Users int
	Posts int
	Clean bool
}

// DefaultPassword is the plaintext password every seeded account gets.
const DefaultPassword = "password123"

// Run fills the database with users, posts, and full threads underneath
// them. The denormalized counters are written to match the created children,
// so a freshly seeded database reconciles with zero drift.
func Run(db *gorm.DB, opts Options) error {
	if opts.Users < 1 {
		return fmt.Errorf("need at least one user, got %d", opts.Users)
	}

	if opts.Clean {
		if err := clearAll(db); err != nil {
			return fmt.Errorf("cleanup: %w", err)
		}
	}

	users, err := seedUsers(db, opts.Users)
	if err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}
	posts, err := seedPosts(db, users, opts.Posts)
	if err != nil {
		return fmt.Errorf("seeding posts: %w", err)
	}
	if err := seedThreads(db, users, posts); err != nil {
		return fmt.Errorf("seeding threads: %w", err)
	}

	log.Printf("Seeded %d users and %d posts", len(users), len(posts))
	return nil
}

func clearAll(db *gorm.DB) error {
	// Children before parents to keep foreign keys happy.
	for _, table := range []string{"reactions", "replies", "comments", "posts", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

func seedUsers(db *gorm.DB, n int) ([]*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		u := fakeUser(i, string(hash))
		if i == 0 {
			u.Username = "admin"
			u.Email = "admin@chatter.dev"
			u.Roles = models.RoleOwner
		}
		if err := db.Create(u).Error; err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func seedPosts(db *gorm.DB, users []*models.User, n int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, n)
	for i := 0; i < n; i++ {
		p := fakePost(users[rand.Intn(len(users))])
		if err := db.Create(p).Error; err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}

// seedThreads attaches comments, replies, and reactions to each post and
// writes the matching denormalized counters.
func seedThreads(db *gorm.DB, users []*models.User, posts []*models.Post) error {
	for _, p := range posts {
		commentCount := rand.Intn(6)
		for i := 0; i < commentCount; i++ {
			c := fakeComment(p, users[rand.Intn(len(users))])
			if err := db.Create(c).Error; err != nil {
				return err
			}

			replyCount := rand.Intn(4)
			for j := 0; j < replyCount; j++ {
				if err := db.Create(fakeReply(c, users[rand.Intn(len(users))])).Error; err != nil {
					return err
				}
			}
			if replyCount > 0 {
				if err := db.Model(c).Update("reply_count", replyCount).Error; err != nil {
					return err
				}
			}
		}

		// A random subset of users reacts, one live reaction each.
		reactors := rand.Perm(len(users))[:rand.Intn(len(users)/2+1)]
		counts := map[models.ReactionType]int{}
		for _, idx := range reactors {
			t := randomReactionType()
			r := &models.Reaction{
				PostID: p.ID,
				UserID: users[idx].ID,
				Type:   t,
			}
			if err := db.Create(r).Error; err != nil {
				return err
			}
			counts[t]++
		}

		updates := map[string]any{"comment_count": commentCount}
		for t, n := range counts {
			updates[string(t)+"_count"] = n
		}
		if err := db.Model(p).Updates(updates).Error; err != nil {
			return err
		}
	}
	return nil
}
