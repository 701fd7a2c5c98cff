package main

import (
	"context"
	"fmt"
	"time"

	"github.com/planovate/planovate-backend/internal/config"
	"github.com/planovate/planovate-backend/internal/database"
	"github.com/planovate/planovate-backend/internal/logger"
	"github.com/planovate/planovate-backend/internal/model"
	"github.com/planovate/planovate-backend/internal/repository"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	teacherRepo := repository.NewTeacherRepository(pool)
	roomRepo := repository.NewRoomRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)

	fmt.Println("=== Seeding Suggestion Options ===")

	teachers := []string{
		"Dr. A. Sharma", "Prof. R. Iyer", "Dr. M. Khan", "Prof. S. Banerjee",
		"Dr. P. Nair", "Prof. V. Rao", "Dr. K. Menon", "Prof. L. Das",
	}
	rooms := []string{
		"LH-101", "LH-102", "LH-201", "Lab A", "Lab B", "Seminar Hall",
	}
	courses := []*model.Course{
		{Name: "Data Structures", Code: "CS201", Semester: "3"},
		{Name: "Operating Systems", Code: "CS301", Semester: "5"},
		{Name: "Database Systems", Code: "CS302", Semester: "5"},
		{Name: "Computer Networks", Code: "CS303", Semester: "5"},
		{Name: "Discrete Mathematics", Code: "MA201", Semester: "3"},
		{Name: "Digital Logic", Code: "EC202", Semester: "3"},
	}

	teacherCount := 0
	for _, name := range teachers {
		if err := teacherRepo.Create(ctx, &model.Teacher{Name: name}); err != nil {
			fmt.Printf("Error creating teacher %s: %v\n", name, err)
		} else {
			teacherCount++
		}
	}

	roomCount := 0
	for _, name := range rooms {
		if err := roomRepo.Create(ctx, &model.Room{Name: name}); err != nil {
			fmt.Printf("Error creating room %s: %v\n", name, err)
		} else {
			roomCount++
		}
	}

	courseCount := 0
	for _, c := range courses {
		if err := courseRepo.Create(ctx, c); err != nil {
			fmt.Printf("Error creating course %s: %v\n", c.Name, err)
		} else {
			courseCount++
		}
	}

	fmt.Printf("\nSeed completed! Teachers: %d/%d, Rooms: %d/%d, Courses: %d/%d\n",
		teacherCount, len(teachers), roomCount, len(rooms), courseCount, len(courses))
}
