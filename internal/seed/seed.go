// Package seed loads the initial activity catalog and teacher accounts.
// Seeding is idempotent: records are upserted and existing participant
// rosters are never clobbered.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mergington-hub/activities-hub/internal/domain/activity"
	"github.com/mergington-hub/activities-hub/internal/domain/teacher"
	"github.com/mergington-hub/activities-hub/pkg/logger"
)

// ActivitySeed is one activity in a seed file.
type ActivitySeed struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants,omitempty"`
}

// TeacherSeed is one teacher account in a seed file.
type TeacherSeed struct {
	Username    string `json:"username"`
	Secret      string `json:"secret"`
	DisplayName string `json:"display_name"`
}

// Data is the full seed payload.
type Data struct {
	Activities []ActivitySeed `json:"activities"`
	Teachers   []TeacherSeed  `json:"teachers"`
}

// Defaults returns the built-in Mergington High catalog used when no seed
// file is configured.
func Defaults() Data {
	return Data{
		Activities: []ActivitySeed{
			{
				Name:            "Chess Club",
				Description:     "Learn strategies and compete in chess tournaments",
				Schedule:        "Fridays, 3:30 PM - 5:00 PM",
				MaxParticipants: 12,
			},
			{
				Name:            "Programming Class",
				Description:     "Learn programming fundamentals and build software projects",
				Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
				MaxParticipants: 20,
			},
			{
				Name:            "Gym Class",
				Description:     "Physical education and sports activities",
				Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
				MaxParticipants: 30,
			},
			{
				Name:            "Soccer Team",
				Description:     "Join the school soccer team and compete in matches",
				Schedule:        "Tuesdays and Thursdays, 4:00 PM - 5:30 PM",
				MaxParticipants: 22,
			},
			{
				Name:            "Art Club",
				Description:     "Explore your creativity through painting and drawing",
				Schedule:        "Thursdays, 3:30 PM - 5:00 PM",
				MaxParticipants: 15,
			},
			{
				Name:            "Drama Club",
				Description:     "Act, direct, and produce plays and performances",
				Schedule:        "Mondays and Wednesdays, 4:00 PM - 5:30 PM",
				MaxParticipants: 20,
			},
			{
				Name:            "Math Club",
				Description:     "Solve challenging problems and prepare for math competitions",
				Schedule:        "Tuesdays, 3:30 PM - 4:30 PM",
				MaxParticipants: 10,
			},
			{
				Name:            "Debate Team",
				Description:     "Develop public speaking and argumentation skills",
				Schedule:        "Fridays, 4:00 PM - 5:30 PM",
				MaxParticipants: 12,
			},
		},
		Teachers: []TeacherSeed{
			{Username: "mrodriguez", Secret: "art123", DisplayName: "Ms. Rodriguez"},
			{Username: "mchen", Secret: "chess456", DisplayName: "Mr. Chen"},
			{Username: "principal", Secret: "admin789", DisplayName: "Principal Martinez"},
		},
	}
}

// LoadFile reads a seed payload from a JSON file.
func LoadFile(path string) (Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("seed: failed to read %s: %w", path, err)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return Data{}, fmt.Errorf("seed: failed to parse %s: %w", path, err)
	}
	return data, nil
}

// Apply upserts the seed payload into the stores.
func Apply(ctx context.Context, data Data, activities activity.Repository, teachers teacher.Repository, log *logger.Logger) error {
	if log == nil {
		log = logger.Default()
	}

	for _, s := range data.Activities {
		a, err := activity.New(activity.Name(s.Name), s.Description, s.Schedule, s.MaxParticipants)
		if err != nil {
			return fmt.Errorf("seed: invalid activity %q: %w", s.Name, err)
		}
		for _, email := range s.Participants {
			if err := a.SignUp(activity.StudentEmail(email)); err != nil {
				return fmt.Errorf("seed: invalid roster for %q: %w", s.Name, err)
			}
		}
		if err := activities.Save(ctx, a); err != nil {
			return fmt.Errorf("seed: failed to save activity %q: %w", s.Name, err)
		}
	}

	for _, s := range data.Teachers {
		t := &teacher.Teacher{
			Username:    teacher.Username(s.Username),
			Secret:      s.Secret,
			DisplayName: s.DisplayName,
		}
		if err := teachers.Save(ctx, t); err != nil {
			return fmt.Errorf("seed: failed to save teacher %q: %w", s.Username, err)
		}
	}

	log.Info("seed applied",
		logger.Int("activities", len(data.Activities)),
		logger.Int("teachers", len(data.Teachers)),
	)
	return nil
}
