// week_preview рисует картинку недели на тестовых данных, чтобы проверить
// вёрстку без бота и API.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/tutornearby_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/tutornearby_bot/internal/model"
)

func main() {
	out := flag.String("out", "week_preview.png", "output PNG file")
	flag.Parse()

	now := time.Now().UTC()
	monday := common.WeekStart(model.NewDate(now))
	at := func(day, hour, minute int) time.Time {
		return monday.AddDays(day).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	}

	tutor := &model.Tutor{
		ID:         1,
		FirstName:  "Maria",
		Subjects:   []model.SubjectRef{{ID: 1, Name: "Mathematics"}, {ID: 2, Name: "Physics"}},
		HourlyRate: 40,
	}

	sessions := []model.Session{
		{ID: 1, StudentIDs: []int64{10}, Subject: 1, SessionDate: at(0, 9, 0), DurationHours: 1, Status: model.SessionStatusConfirmed},
		{ID: 2, StudentIDs: []int64{11}, Subject: 2, SessionDate: at(0, 14, 30), DurationHours: 1.5, Status: model.SessionStatusPending},
		{ID: 3, StudentIDs: []int64{10, 11}, Subject: 1, SessionDate: at(2, 11, 0), DurationHours: 2, Status: model.SessionStatusInProgress},
		{ID: 4, StudentIDs: []int64{12}, Subject: 2, SessionDate: at(3, 16, 0), DurationHours: 1, Status: model.SessionStatusCancelled},
		{ID: 5, StudentIDs: []int64{12}, Subject: 1, SessionDate: at(4, 18, 0), DurationHours: 0.5, Status: model.SessionStatusCompleted},
	}

	data, err := common.GenerateWeekImage(common.WeekImage{
		WeekStart: monday,
		Sessions:  sessions,
		Tutor:     tutor,
		StudentNames: map[int64]string{
			10: "Ann Lee",
			11: "Tom Hart",
			12: "Zoe Kim",
		},
		Now: now,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "render week image: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("Week image saved to %s (%d bytes)\n", *out, len(data))
}
