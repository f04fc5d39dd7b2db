package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	"chirper/crud"
	"chirper/http"
	"chirper/revalidate"
)

// main is the app's entry point.
func main() {
	// Check if the flag "-prod" has been provided. It means that we're running in production.
	productionBool := flag.Bool("prod", false, "Provide this flag in production to ensure that a .config.json file is provided before the application starts.")
	flag.Parse()

	// Load configuration from a .config.json file if present, otherwise use the default dev setup.
	config := LoadConfig(*productionBool)
	if config.IsProd() {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	// Open a database connection and execute migrations.
	db := NewDB(config.Database.ConnectionInfo())
	err := Open(db, config.IsProd())
	must(err)
	defer Close(db)
	err = AutoMigrate(db)
	must(err)

	// Start the crud services.
	services, err := crud.NewServices(
		db.Gorm,
		crud.WithUser(config.Pepper),
		crud.WithTweet(),
		crud.WithFollow(),
		crud.WithLike(),
		crud.WithFeed(),
	)
	must(err)

	// The profile-page revalidation hook, disabled when no URL is configured.
	revalidator := revalidate.NewHook(config.RevalidateURL)

	// Set up a webserver.
	server := http.NewServer(
		config.ClientURL,
		config.JWTSecret,
		revalidator,
		services.User,
		services.Tweet,
		services.Follow,
		services.Like,
		services.Feed,
	)

	// Serve the app.
	server.Run(config.Port)
}

// must is a little helper for shortening the panic instruction.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
