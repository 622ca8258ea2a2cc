// seed 为本地开发生成演示数据
package main

import (
	"flag"
	"fmt"
	"time"

	"blogicum/internal/config"
	"blogicum/internal/model"
	"blogicum/internal/pkg"
	"blogicum/internal/repository/mysql"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	users := flag.Int("users", 5, "number of demo users")
	posts := flag.Int("posts", 40, "number of posts")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		pkg.Logger.WithError(err).Fatal("load config")
	}
	pkg.InitLogger(cfg.LogLevel)
	if err := mysql.InitDB(cfg.MySQLDSN); err != nil {
		pkg.Logger.WithError(err).Fatal("connect mysql")
	}
	defer mysql.Close()
	if err := mysql.Migrate(mysql.DB); err != nil {
		pkg.Logger.WithError(err).Fatal("migrate")
	}

	gofakeit.Seed(time.Now().UnixNano())
	if err := mysql.DB.Transaction(func(tx *gorm.DB) error {
		return seed(tx, *users, *posts)
	}); err != nil {
		pkg.Logger.WithError(err).Fatal("seed")
	}
	pkg.Logger.Info("seed done")
}

func seed(tx *gorm.DB, userCount, postCount int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.User{Username: "admin", Email: "admin@example.com", Password: string(hash), Role: model.RoleStaff}
	if err := tx.Where(model.User{Username: admin.Username}).FirstOrCreate(&admin).Error; err != nil {
		return err
	}
	authors := []model.User{admin}
	for i := 0; i < userCount; i++ {
		u := model.User{
			Username:  fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:     fmt.Sprintf("user%d.%s", i, gofakeit.Email()),
			Password:  string(hash),
			FirstName: gofakeit.FirstName(),
			LastName:  gofakeit.LastName(),
		}
		if err := tx.Create(&u).Error; err != nil {
			return err
		}
		authors = append(authors, u)
	}

	var categories []model.Category
	for i := 0; i < 4; i++ {
		c := model.Category{
			Title:       gofakeit.BookGenre(),
			Description: gofakeit.Sentence(12),
			Slug:        gofakeit.Word() + "-" + gofakeit.DigitN(4),
			IsPublished: i != 3,
		}
		if err := tx.Create(&c).Error; err != nil {
			return err
		}
		categories = append(categories, c)
	}

	var locations []model.Location
	for i := 0; i < 3; i++ {
		l := model.Location{Name: gofakeit.City(), IsPublished: i != 2}
		if err := tx.Create(&l).Error; err != nil {
			return err
		}
		locations = append(locations, l)
	}

	now := time.Now().UTC()
	for i := 0; i < postCount; i++ {
		author := authors[gofakeit.Number(0, len(authors)-1)]
		p := model.Post{
			Title:       gofakeit.Sentence(5),
			Text:        gofakeit.Paragraph(3, 4, 12, "\n\n"),
			PubDate:     now.Add(time.Duration(gofakeit.Number(-24*60, 24*3)) * time.Hour),
			AuthorID:    author.ID,
			IsPublished: gofakeit.Number(0, 9) > 0,
		}
		if gofakeit.Bool() {
			p.CategoryID = &categories[gofakeit.Number(0, len(categories)-1)].ID
		}
		if gofakeit.Bool() {
			p.LocationID = &locations[gofakeit.Number(0, len(locations)-1)].ID
		}
		if err := tx.Omit("Author", "Category", "Location").Create(&p).Error; err != nil {
			return err
		}
		for j := gofakeit.Number(0, 4); j > 0; j-- {
			c := model.Comment{
				Text:        gofakeit.Sentence(10),
				PostID:      p.ID,
				AuthorID:    authors[gofakeit.Number(0, len(authors)-1)].ID,
				IsPublished: true,
			}
			if err := tx.Omit("Author", "Post").Create(&c).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
