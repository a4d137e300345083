// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"nhatro/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	provinces = []string{
		"Ho Chi Minh", "Ha Noi", "Da Nang", "Can Tho", "Hai Phong",
		"Binh Duong", "Dong Nai", "Khanh Hoa", "Thua Thien Hue",
	}

	districtsByProvince = map[string][]string{
		"Ho Chi Minh": {"District 1", "District 3", "District 7", "Binh Thanh", "Thu Duc", "Go Vap", "Tan Binh"},
		"Ha Noi":      {"Hoan Kiem", "Dong Da", "Cau Giay", "Ha Dong", "Thanh Xuan", "Long Bien"},
		"Da Nang":     {"Hai Chau", "Thanh Khe", "Son Tra", "Ngu Hanh Son", "Lien Chieu"},
	}

	roomTypes = []string{"phong_tro", "nha_nguyen_can", "can_ho", "can_ho_mini", "o_ghep"}

	titleTemplates = []string{
		"Cozy %s near %s",
		"Bright %s in %s",
		"Affordable %s, %s area",
		"Newly renovated %s in %s",
		"Spacious %s close to %s center",
	}

	commentTexts = []string{
		"Clean room, the landlord responds quickly.",
		"A bit noisy at night but good value for the price.",
		"Great location, close to bus stops and markets.",
		"Water pressure is weak on the top floor.",
		"Exactly as described, moved in without issues.",
		"Electricity fee is higher than listed, ask before signing.",
		"Safe area, parking is easy.",
		"Small but well maintained, would recommend.",
	}
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (f *Factory) pick(values []string) string {
	return values[f.rand.Intn(len(values))]
}

// CreateUser constructs and persists a sample account. Every seeded
// account shares the password "Password123!" for easy manual login.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.MinCost)

	user := &models.User{
		Email:         gofakeit.Email(),
		Password:      string(hashed),
		FullName:      gofakeit.Name(),
		ContactNumber: fmt.Sprintf("09%08d", f.rand.Intn(100000000)),
		Address:       gofakeit.Street(),
		Gender:        f.pick([]string{"male", "female", "other"}),
		AvatarURL:     fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs a listing without persisting it, for batch
// insertion.
func (f *Factory) BuildPost(owner *models.User, overrides ...func(*models.Post)) *models.Post {
	province := f.pick(provinces)
	districts, ok := districtsByProvince[province]
	if !ok {
		districts = []string{"City Center"}
	}
	district := f.pick(districts)
	roomType := f.pick(roomTypes)

	post := &models.Post{
		UserID:          owner.ID,
		Title:           fmt.Sprintf(f.pick(titleTemplates), roomType, district),
		Description:     gofakeit.Paragraph(1, 3, 8, "\n"),
		Price:           (f.rand.Intn(70) + 10) * 100000,
		RoomNum:         f.rand.Intn(3) + 1,
		Area:            f.rand.Intn(40) + 12,
		Type:            roomType,
		Deposit:         f.pick([]string{"1 month", "2 months", "none"}),
		ElectricityFee:  3500 + f.rand.Intn(5)*100,
		WaterFee:        (f.rand.Intn(10) + 10) * 1000,
		InternetFee:     f.rand.Intn(3) * 50000,
		VehicleFee:      f.rand.Intn(2) * 100000,
		FloorNum:        fmt.Sprintf("%d", f.rand.Intn(6)+1),
		Province:        province,
		District:        district,
		Rural:           fmt.Sprintf("Ward %d", f.rand.Intn(20)+1),
		Street:          gofakeit.Street(),
		DetailedAddress: fmt.Sprintf("%d %s", f.rand.Intn(400)+1, gofakeit.Street()),
		Status:          models.StatusPending,
	}

	// realistic created_at spread over the last 90 days
	daysBack := f.rand.Intn(90)
	hoursBack := f.rand.Intn(24)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.Create(&posts).Error
}

// CreateAmenity attaches a random flag set to a post.
func (f *Factory) CreateAmenity(post *models.Post) (*models.Amenity, error) {
	amenity := &models.Amenity{
		PostID:          post.ID,
		Wifi:            f.rand.Intn(100) < 80,
		AirConditioner:  f.rand.Intn(100) < 50,
		Fridge:          f.rand.Intn(100) < 40,
		WashingMachine:  f.rand.Intn(100) < 35,
		ParkingLot:      f.rand.Intn(100) < 70,
		Security:        f.rand.Intn(100) < 60,
		Kitchen:         f.rand.Intn(100) < 55,
		PrivateBathroom: f.rand.Intn(100) < 65,
		Furniture:       f.rand.Intn(100) < 45,
		Balcony:         f.rand.Intn(100) < 30,
		Elevator:        f.rand.Intn(100) < 20,
		PetAllowed:      f.rand.Intn(100) < 15,
	}
	if err := f.db.Create(amenity).Error; err != nil {
		return nil, err
	}
	return amenity, nil
}

// CreateImages attaches placeholder photos to a post.
func (f *Factory) CreateImages(post *models.Post, count int) error {
	for i := 0; i < count; i++ {
		image := &models.Image{
			PostID:   post.ID,
			ImageURL: fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
		}
		if err := f.db.Create(image).Error; err != nil {
			return err
		}
	}
	return nil
}

// CreateComment leaves a rating from the given user on the post. The
// post's aggregate is not recomputed here; the seeder does that once
// per post after all comments land.
func (f *Factory) CreateComment(post *models.Post, user *models.User, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:  post.ID,
		UserID:  user.ID,
		Rating:  float64(f.rand.Intn(4) + 2),
		Comment: f.pick(commentTexts),
		Status:  models.StatusApproved,
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}
