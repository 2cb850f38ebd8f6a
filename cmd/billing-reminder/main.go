package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"billing-reminder-go/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		logrus.Errorf("Application failed: %v", err)
		os.Exit(1)
	}
}
