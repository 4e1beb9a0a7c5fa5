package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"clinic-operations/cmd/bootstrap"
	"clinic-operations/config"
	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/delivery/http/middleware"
	"clinic-operations/internal/domain/calendar"
	"clinic-operations/internal/domain/entity"
	"clinic-operations/internal/infrastructure/database"
	"clinic-operations/internal/infrastructure/metrics"
	"clinic-operations/pkg/jwt"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var specializations = []string{
	"General Practice",
	"Pediatrics",
	"Internal Medicine",
	"Dermatology",
	"Dentistry",
}

func main() {
	doctors := flag.Int("doctors", 3, "number of doctors")
	patients := flag.Int("patients", 50, "number of patients")
	medicines := flag.Int("medicines", 20, "number of medicines")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	log := bootstrap.NewLogger(cfg.Log)

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Timezone, log)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	repos := bootstrap.NewPostgresRepositories(db)
	uc := bootstrap.NewUsecases(cfg, log, repos, nil, metrics.NewClinicMetrics(prometheus.NewRegistry()))

	gofakeit.Seed(time.Now().UnixNano())
	s := &seeder{uc: uc, log: log, tokens: jwt.NewJWTService(cfg.JWT)}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.run(ctx, *doctors, *patients, *medicines, cfg.Scheduling.HorizonDays); err != nil {
		logrus.Fatalf("Seed failed: %v", err)
	}
	log.Info("Seed complete")
}

type seeder struct {
	uc     *bootstrap.Usecases
	log    *logrus.Logger
	tokens *jwt.JWTService
}

func (s *seeder) run(ctx context.Context, doctors, patients, medicines, horizonDays int) error {
	// The admin exists before it can act, so it is created without an actor.
	admin, err := s.staff(ctx, entity.StaffRoleAdmin, "")
	if err != nil {
		return err
	}
	ctx = middleware.WithStaff(ctx, admin.ID, entity.StaffRoleAdmin)
	s.printToken(admin)

	for _, role := range []entity.StaffRole{entity.StaffRoleReceptionist, entity.StaffRoleNurse, entity.StaffRoleCashier} {
		st, err := s.staff(ctx, role, "")
		if err != nil {
			return err
		}
		s.printToken(st)
	}

	for i := 0; i < doctors; i++ {
		doc, err := s.staff(ctx, entity.StaffRoleDoctor, specializations[gofakeit.Number(0, len(specializations)-1)])
		if err != nil {
			return err
		}
		if err := s.weekdayTemplates(ctx, doc.ID); err != nil {
			return err
		}
		s.printToken(doc)
	}

	generated, err := s.uc.Calendar.PregenerateSlots(ctx, horizonDays)
	if err != nil {
		return fmt.Errorf("pregenerate slots: %w", err)
	}
	s.log.WithField("slots", generated).Info("Slots generated")

	for i := 0; i < patients; i++ {
		if _, err := s.uc.Staff.CreatePatient(ctx, &dto.CreatePatientRequest{
			FullName:    gofakeit.Name(),
			Phone:       gofakeit.Phone(),
			Gender:      gofakeit.RandomString([]string{"M", "F"}),
			DateOfBirth: gofakeit.DateRange(time.Now().AddDate(-80, 0, 0), time.Now().AddDate(-1, 0, 0)).Format(calendar.DateLayout),
			Address:     gofakeit.Street() + ", " + gofakeit.City(),
		}); err != nil {
			return fmt.Errorf("create patient: %w", err)
		}
	}

	for i := 0; i < medicines; i++ {
		if _, err := s.uc.Catalog.CreateMedicine(ctx, &dto.MedicineRequest{
			Name:      gofakeit.LoremIpsumWord() + " " + gofakeit.RandomString([]string{"500mg", "250mg", "10ml", "5mg"}),
			Unit:      gofakeit.RandomString([]string{"tablet", "capsule", "bottle", "tube"}),
			SalePrice: decimal.NewFromInt(int64(gofakeit.Number(2, 60)) * 1000),
			Stock:     gofakeit.Number(20, 500),
		}); err != nil {
			return fmt.Errorf("create medicine: %w", err)
		}
	}

	for _, name := range []string{"Blood test", "Wound dressing", "ECG", "Nebulizer", "Injection"} {
		if _, err := s.uc.Catalog.CreateService(ctx, &dto.ClinicServiceRequest{
			Name:        name,
			Description: gofakeit.LoremIpsumSentence(8),
			Price:       decimal.NewFromInt(int64(gofakeit.Number(25, 200)) * 1000),
		}); err != nil {
			return fmt.Errorf("create service: %w", err)
		}
	}

	return nil
}

func (s *seeder) staff(ctx context.Context, role entity.StaffRole, specialization string) (*dto.StaffResponse, error) {
	st, err := s.uc.Staff.CreateStaff(ctx, &dto.CreateStaffRequest{
		FullName:       gofakeit.Name(),
		Email:          fmt.Sprintf("%s.%s@clinic.test", string(role), uuid.NewString()[:8]),
		Role:           string(role),
		Specialization: specialization,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", role, err)
	}
	return st, nil
}

// weekdayTemplates gives a doctor Monday to Friday morning clinics and a
// Wednesday afternoon.
func (s *seeder) weekdayTemplates(ctx context.Context, staffID uuid.UUID) error {
	templates := []dto.CreateTemplateRequest{
		{Weekday: "MONDAY", Label: "MORNING", StartTime: "08:00", EndTime: "12:00"},
		{Weekday: "TUESDAY", Label: "MORNING", StartTime: "08:00", EndTime: "12:00"},
		{Weekday: "WEDNESDAY", Label: "MORNING", StartTime: "08:00", EndTime: "12:00"},
		{Weekday: "WEDNESDAY", Label: "AFTERNOON", StartTime: "13:00", EndTime: "16:00", SlotMinutes: 30},
		{Weekday: "THURSDAY", Label: "MORNING", StartTime: "08:00", EndTime: "12:00"},
		{Weekday: "FRIDAY", Label: "MORNING", StartTime: "08:00", EndTime: "11:00"},
	}
	for i := range templates {
		templates[i].StaffID = staffID
		if _, err := s.uc.Calendar.CreateTemplate(ctx, &templates[i]); err != nil {
			return fmt.Errorf("create template: %w", err)
		}
	}
	return nil
}

func (s *seeder) printToken(st *dto.StaffResponse) {
	token, _, err := s.tokens.GenerateAccessToken(st.ID, st.Role)
	if err != nil {
		s.log.WithError(err).Warn("Failed to sign dev token")
		return
	}
	fmt.Printf("%-13s %s %s\n", st.Role, st.ID, token)
}
