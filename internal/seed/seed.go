package seed

import (
	"fmt"
	"log"

	"nhatro/internal/models"
	"nhatro/internal/repository"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seeder populates the database with demo marketplace data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll removes all seeded data. Child tables go first so the
// deletes succeed even without cascading foreign keys.
func (s *Seeder) ClearAll() error {
	tables := []any{
		&models.History{},
		&models.Favourite{},
		&models.Comment{},
		&models.Image{},
		&models.Amenity{},
		&models.Post{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			return fmt.Errorf("clear %T: %w", table, err)
		}
	}
	return nil
}

// Seed populates the database with users, listings in every moderation
// state, amenities, photos, reviews, favourites and view history.
func (s *Seeder) Seed(opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 50
	}
	if opts.NumPosts <= 0 {
		opts.NumPosts = 200
	}

	log.Printf("Seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}
	}

	users, err := s.createUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	posts, err := s.createPosts(users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	if err := s.decoratePosts(posts); err != nil {
		return fmt.Errorf("decorate posts: %w", err)
	}

	if err := s.createEngagement(users, posts); err != nil {
		return fmt.Errorf("create engagement: %w", err)
	}

	log.Println("seeding complete")
	return nil
}

func (s *Seeder) createUsers(count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	admin, err := s.factory.CreateUser(func(u *models.User) {
		u.Email = "admin@nhatro.local"
		u.FullName = "Site Admin"
		u.IsAdmin = true
	})
	if err != nil {
		return nil, err
	}
	users = append(users, admin)

	for i := 1; i < count; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// createPosts spreads listings across users and moderation states so
// the admin console has something to review. Roughly 70% approved,
// 20% pending, 10% rejected, and a sprinkle of reports.
func (s *Seeder) createPosts(users []*models.User, count int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		owner := users[s.factory.rand.Intn(len(users))]
		post := s.factory.BuildPost(owner, func(p *models.Post) {
			switch roll := s.factory.rand.Intn(100); {
			case roll < 70:
				p.Status = models.StatusApproved
			case roll < 90:
				p.Status = models.StatusPending
			default:
				p.Status = models.StatusRejected
			}
			if s.factory.rand.Intn(100) < 5 {
				p.IsReport = true
			}
			p.Views = s.factory.rand.Intn(500)
		})
		posts = append(posts, post)
	}

	if err := s.factory.CreatePostsBatch(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *Seeder) decoratePosts(posts []*models.Post) error {
	for _, post := range posts {
		if s.factory.rand.Intn(100) < 80 {
			if _, err := s.factory.CreateAmenity(post); err != nil {
				return err
			}
		}
		if err := s.factory.CreateImages(post, s.factory.rand.Intn(4)+1); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) createEngagement(users []*models.User, posts []*models.Post) error {
	commented := 0
	for _, post := range posts {
		reviewers := s.factory.rand.Intn(4)
		seen := map[uint]bool{}
		for i := 0; i < reviewers; i++ {
			user := users[s.factory.rand.Intn(len(users))]
			// one review per user per post
			if user.ID == post.UserID || seen[user.ID] {
				continue
			}
			seen[user.ID] = true
			if _, err := s.factory.CreateComment(post, user); err != nil {
				return err
			}
			commented++
		}
		if len(seen) > 0 {
			if err := repository.RecomputePostRating(s.db, post.ID); err != nil {
				return err
			}
		}
	}
	log.Printf("created %d comments", commented)

	favourites := 0
	views := 0
	for _, user := range users {
		for i := 0; i < s.factory.rand.Intn(6); i++ {
			post := posts[s.factory.rand.Intn(len(posts))]
			fav := &models.Favourite{UserID: user.ID, PostID: post.ID}
			if err := s.db.FirstOrCreate(fav, models.Favourite{UserID: user.ID, PostID: post.ID}).Error; err != nil {
				return err
			}
			favourites++
		}
		for i := 0; i < s.factory.rand.Intn(10); i++ {
			post := posts[s.factory.rand.Intn(len(posts))]
			h := &models.History{UserID: user.ID, PostID: post.ID}
			if err := s.db.FirstOrCreate(h, models.History{UserID: user.ID, PostID: post.ID}).Error; err != nil {
				return err
			}
			views++
		}
	}
	log.Printf("created %d favourites and %d history rows", favourites, views)
	return nil
}
