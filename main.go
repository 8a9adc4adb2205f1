package main

import (
	"log"

	"github.com/joho/godotenv"

	"fpbg/config"
	"fpbg/server"
)

func main() {
	// .env facultatif en développement; la config vient de l'environnement.
	if err := godotenv.Load(); err != nil {
		log.Println("pas de .env trouvé")
	}

	cfg := config.MustLoad()
	app := &server.App{}
	app.Initialize(cfg)
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
