// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"kindred/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	ShouldClean bool
	PremiumRate float64 // fraction of users on an active premium plan
}

// Seeder populates the database with realistic development data.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll deletes seeded data in FK-safe order.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	for _, model := range []interface{}{
		&models.Call{},
		&models.Subscription{},
		&models.Friendship{},
		&models.ConnectionRequest{},
		&models.User{},
	} {
		if err := s.db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return fmt.Errorf("failed to clear %T: %w", model, err)
		}
	}
	return nil
}

// Seed creates users, connection requests, friendships with spread interaction
// counts, and subscriptions for a fraction of the users.
func (s *Seeder) Seed(opts Options) error {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	users, err := s.createUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("Created %d users", len(users))

	premium, err := s.createSubscriptions(users, opts.PremiumRate)
	if err != nil {
		return fmt.Errorf("failed to create subscriptions: %w", err)
	}
	log.Printf("Created %d premium subscriptions", premium)

	friendships, requests, err := s.createRelationships(users)
	if err != nil {
		return fmt.Errorf("failed to create relationships: %w", err)
	}
	log.Printf("Created %d friendships and %d pending requests", friendships, requests)

	return nil
}

func (s *Seeder) createUsers(n int) ([]models.User, error) {
	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		person := gofakeit.Person()
		user := models.User{
			Name:       person.FirstName + " " + person.LastName,
			Email:      fmt.Sprintf("%d.%s", i, gofakeit.Email()),
			Phone:      gofakeit.Phone(),
			Age:        18 + s.rand.Intn(42),
			Religion:   gofakeit.RandomString([]string{"", "Hindu", "Christian", "Muslim", "Buddhist", "Jewish"}),
			Place:      gofakeit.City(),
			Skills:     []string{gofakeit.HackerVerb(), gofakeit.HackerNoun(), gofakeit.HackerAdjective()},
			Profession: gofakeit.JobTitle(),
			Bio:        gofakeit.Sentence(10),
			Photos:     []string{fmt.Sprintf("https://picsum.photos/seed/%s/400/400", gofakeit.UUID())},
			College:    gofakeit.Company() + " University",
			Company:    gofakeit.Company(),
			Website:    gofakeit.URL(),
			Verified:   s.rand.Float64() < 0.3,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) createSubscriptions(users []models.User, premiumRate float64) (int, error) {
	if premiumRate <= 0 {
		premiumRate = 0.2
	}
	premium := 0
	for _, u := range users {
		plan := models.SubscriptionPlanFree
		if s.rand.Float64() < premiumRate {
			plan = models.SubscriptionPlanPremium
			premium++
		}
		sub := models.Subscription{
			UserID:    u.ID,
			Plan:      plan,
			Status:    models.SubscriptionStatusActive,
			StartDate: time.Now().AddDate(0, -s.rand.Intn(6), 0),
		}
		if err := s.db.Create(&sub).Error; err != nil {
			return premium, err
		}
	}
	return premium, nil
}

// createRelationships links each user to a handful of later users, roughly
// two thirds as established friendships and the rest as pending requests.
func (s *Seeder) createRelationships(users []models.User) (friendships, requests int, err error) {
	for i := range users {
		links := 2 + s.rand.Intn(4)
		for j := 0; j < links; j++ {
			other := s.rand.Intn(len(users))
			if other == i {
				continue
			}
			a, b := users[i].ID, users[other].ID

			if s.rand.Float64() < 0.66 {
				count := s.rand.Intn(6)
				friendship := models.Friendship{
					User1ID:            a,
					User2ID:            b,
					CommunicationLevel: models.LevelForInteractions(count),
					InteractionCount:   count,
				}
				result := s.db.Where("pair_key = ?", models.PairKey(a, b)).FirstOrCreate(&friendship)
				if result.Error != nil {
					return friendships, requests, result.Error
				}
				if result.RowsAffected > 0 {
					friendships++
				}
				continue
			}

			request := models.ConnectionRequest{
				SenderID:   a,
				ReceiverID: b,
				Status:     models.ConnectionRequestStatusPending,
			}
			result := s.db.Where("sender_id = ? AND receiver_id = ?", a, b).FirstOrCreate(&request)
			if result.Error != nil {
				return friendships, requests, result.Error
			}
			if result.RowsAffected > 0 {
				requests++
			}
		}
	}
	return friendships, requests, nil
}
