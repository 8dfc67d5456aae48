package backendstub

import "gorm.io/gorm"

// Seed loads a small demo catalogue and one account per portal. Used by
// cmd/stubserver and the integration tests.
func Seed(db *gorm.DB) error {
	var count int64
	db.Model(&Product{}).Count(&count)
	if count > 0 {
		return nil
	}

	products := []Product{
		{Name: "Chicken Biryani", Category: "Mains", PriceNow: 650, ImageURL: "/img/biryani.jpg", IsAvailable: true},
		{Name: "Beef Samosa", Category: "Snacks", PriceNow: 80, ImageURL: "/img/samosa.jpg", IsAvailable: true},
		{Name: "Mango Juice", Category: "Drinks", PriceNow: 200, ImageURL: "/img/mango.jpg", IsAvailable: true},
	}
	if err := db.Create(&products).Error; err != nil {
		return err
	}

	customerHash, err := hashPassword("customer1")
	if err != nil {
		return err
	}
	staffHash, err := hashPassword("delivery1")
	if err != nil {
		return err
	}
	adminHash, err := hashPassword("admin123")
	if err != nil {
		return err
	}

	accounts := []any{
		&Customer{Email: "customer@example.com", Username: "hungry", Phone: "+254700000001", PasswordHash: customerHash, IsActive: true},
		&Staff{Email: "rider@example.com", Phone: "+254700000002", PasswordHash: staffHash, IsApproved: true},
		&Admin{Email: "admin@example.com", PasswordHash: adminHash},
	}
	for _, a := range accounts {
		if err := db.Create(a).Error; err != nil {
			return err
		}
	}
	return nil
}
