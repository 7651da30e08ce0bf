// Command token-generator mints an access token for a student so the API can
// be exercised locally. It signs with the same LINGO_AUTH_* settings the
// server reads.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/phrazzld/lingo-progress/internal/config"
	"github.com/phrazzld/lingo-progress/internal/service/auth"
)

func main() {
	student := flag.String("student", "", "student ID to embed in the token (random when empty)")
	flag.Parse()

	if err := run(*student); err != nil {
		fmt.Fprintf(os.Stderr, "token-generator: %v\n", err)
		os.Exit(1)
	}
}

func run(student string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	studentID := uuid.New()
	if student != "" {
		var err error
		studentID, err = uuid.Parse(student)
		if err != nil {
			return fmt.Errorf("invalid student ID %q: %w", student, err)
		}
	}

	cfg, err := config.LoadAuth()
	if err != nil {
		return err
	}

	jwtService, err := auth.NewJWTService(*cfg)
	if err != nil {
		return err
	}

	token, err := jwtService.GenerateToken(context.Background(), studentID)
	if err != nil {
		return err
	}

	fmt.Printf("Student: %s\nToken: %s\n", studentID, token)
	return nil
}
