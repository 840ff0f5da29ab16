package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type User struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;not null"`
	Email     string
	Password  string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UserProfile struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"uniqueIndex;not null"`
	Role      string `gorm:"not null;default:'employee'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Pizzeria struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Address   string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type OwnerAssignment struct {
	ID         uint `gorm:"primaryKey"`
	UserID     uint `gorm:"not null;uniqueIndex:idx_owner_pizzeria"`
	PizzeriaID uint `gorm:"not null;uniqueIndex:idx_owner_pizzeria"`
	CreatedAt  time.Time
}

type Product struct {
	ID          uint `gorm:"primaryKey"`
	PizzeriaID  uint `gorm:"not null;index"`
	Name        string
	Price       float64
	Category    string
	Description string
	Active      bool `gorm:"default:true"`
	CreatedAt   time.Time
}

func main() {
	// Parse command line flags
	username := flag.String("username", "dev-owner", "Username for the dev owner account")
	password := flag.String("password", "dev-secret-123", "Password for the dev owner account")
	dbPath := flag.String("db", "ventas.sqlite", "Path to the sqlite database")
	flag.Parse()

	db, err := gorm.Open(sqlite.Open(*dbPath), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Check if the dev owner already exists
	var existing User
	if err := db.Where("username = ?", *username).First(&existing).Error; err == nil {
		fmt.Println("Development owner already exists!")
		fmt.Printf("Username: %s\n", *username)
		fmt.Printf("Password: %s\n", *password)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	user := User{Username: *username, Email: *username + "@example.com", Password: string(hash)}
	if err := db.Create(&user).Error; err != nil {
		log.Fatal("Failed to create user:", err)
	}
	if err := db.Create(&UserProfile{UserID: user.ID, Role: "owner"}).Error; err != nil {
		log.Fatal("Failed to create profile:", err)
	}

	pizzeria := Pizzeria{Name: "Dev Pizzeria", Address: "123 Dev Street", Phone: "555-0100"}
	if err := db.Create(&pizzeria).Error; err != nil {
		log.Fatal("Failed to create pizzeria:", err)
	}
	if err := db.Create(&OwnerAssignment{UserID: user.ID, PizzeriaID: pizzeria.ID}).Error; err != nil {
		log.Fatal("Failed to assign ownership:", err)
	}

	products := []Product{
		{PizzeriaID: pizzeria.ID, Name: "Margherita", Price: 10.99, Category: "Pizza", Active: true},
		{PizzeriaID: pizzeria.ID, Name: "Pepperoni", Price: 12.99, Category: "Pizza", Active: true},
		{PizzeriaID: pizzeria.ID, Name: "Cola", Price: 2.50, Category: "Drink", Active: true},
	}
	for _, p := range products {
		if err := db.Create(&p).Error; err != nil {
			log.Fatal("Failed to create product:", err)
		}
	}

	fmt.Println("Development owner created successfully!")
	fmt.Printf("Username: %s\n", *username)
	fmt.Printf("Password: %s\n", *password)
	fmt.Printf("Pizzeria ID: %d\n", pizzeria.ID)
}
