// Package fixtures loads the demo data set used by the seed command and the admin seed endpoint.
package fixtures

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"truckrecruit/internal/model"
	"truckrecruit/internal/repository"
)

//go:embed fixtures.yaml
var defaultData []byte

// Set is the parsed demo data.
type Set struct {
	Password   string      `yaml:"password"`
	Admins     []Person    `yaml:"admins"`
	Recruiters []Recruiter `yaml:"recruiters"`
	Drivers    []Driver    `yaml:"drivers"`
	Jobs       []Job       `yaml:"jobs"`
}

// Person holds the profile fields shared by every role.
type Person struct {
	ID       string `yaml:"id"`
	Email    string `yaml:"email"`
	Name     string `yaml:"name"`
	Phone    string `yaml:"phone"`
	Location string `yaml:"location"`
}

// Recruiter is a demo recruiter with its subscription.
type Recruiter struct {
	Person       `yaml:",inline"`
	CompanyName  string       `yaml:"company_name"`
	CompanySize  string       `yaml:"company_size"`
	Website      string       `yaml:"website"`
	Subscription Subscription `yaml:"subscription"`
}

// Subscription is a demo subscription. Limit and price come from the plan.
type Subscription struct {
	Type         string    `yaml:"type"`
	Status       string    `yaml:"status"`
	ContactsUsed int       `yaml:"contacts_used"`
	PeriodStart  time.Time `yaml:"period_start"`
	PeriodEnd    time.Time `yaml:"period_end"`
}

// Driver is a demo driver.
type Driver struct {
	Person              `yaml:",inline"`
	ExperienceYears     int      `yaml:"experience_years"`
	LicenseTypes        []string `yaml:"license_types"`
	TWICCard            bool     `yaml:"twic_card"`
	HazmatEndorsement   bool     `yaml:"hazmat_endorsement"`
	Availability        string   `yaml:"availability"`
	PreferredRoutes     []string `yaml:"preferred_routes"`
	EquipmentExperience []string `yaml:"equipment_experience"`
	FitScore            float64  `yaml:"fit_score"`
	ProfileCompletion   int      `yaml:"profile_completion"`
	DocumentsVerified   bool     `yaml:"documents_verified"`
	Bio                 string   `yaml:"bio"`
}

// Job is a demo job posting.
type Job struct {
	Recruiter    string   `yaml:"recruiter"`
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	Location     string   `yaml:"location"`
	JobType      string   `yaml:"job_type"`
	SalaryMin    *int     `yaml:"salary_min"`
	SalaryMax    *int     `yaml:"salary_max"`
	Requirements []string `yaml:"requirements"`
	Benefits     []string `yaml:"benefits"`
}

// Result counts what Seed wrote.
type Result struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// Default parses the embedded data set.
func Default() (*Set, error) {
	return Parse(defaultData)
}

// Parse decodes a YAML data set.
func Parse(data []byte) (*Set, error) {
	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &set, nil
}

// Seed writes the set in one transaction. Profiles whose email already exists are skipped,
// so seeding twice is harmless. hash turns the shared demo password into a stored hash.
func Seed(ctx context.Context, tx repository.Transactor, set *Set, hash func(string) (string, error)) (*Result, error) {
	passwordHash, err := hash(set.Password)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}

	res := &Result{}
	err = tx.WithTransaction(ctx, func(ctx context.Context, repos *repository.Repositories) error {
		for _, a := range set.Admins {
			created, err := createProfile(ctx, repos, a, model.RoleAdmin, passwordHash)
			if err != nil {
				return err
			}
			res.count(created != nil)
		}

		for _, r := range set.Recruiters {
			profile, err := createProfile(ctx, repos, r.Person, model.RoleRecruiter, passwordHash)
			if err != nil {
				return err
			}
			res.count(profile != nil)
			if profile == nil {
				continue
			}
			if err := repos.Recruiters.Create(ctx, &model.Recruiter{
				ID:          profile.ID,
				CompanyName: r.CompanyName,
				CompanySize: r.CompanySize,
				Website:     r.Website,
			}); err != nil {
				return fmt.Errorf("create recruiter %s: %w", r.Email, err)
			}
			if err := repos.Subscriptions.Create(ctx, r.Subscription.toModel(profile.ID)); err != nil {
				return fmt.Errorf("create subscription %s: %w", r.Email, err)
			}
		}

		for _, d := range set.Drivers {
			profile, err := createProfile(ctx, repos, d.Person, model.RoleDriver, passwordHash)
			if err != nil {
				return err
			}
			res.count(profile != nil)
			if profile == nil {
				continue
			}
			if err := repos.Drivers.Create(ctx, d.toModel(profile.ID)); err != nil {
				return fmt.Errorf("create driver %s: %w", d.Email, err)
			}
		}

		for _, j := range set.Jobs {
			recruiterID, err := uuid.Parse(j.Recruiter)
			if err != nil {
				return fmt.Errorf("job %q: %w", j.Title, err)
			}
			existing, err := repos.Jobs.ListByRecruiter(ctx, recruiterID)
			if err != nil {
				return err
			}
			if hasTitle(existing, j.Title) {
				res.Skipped++
				continue
			}
			if err := repos.Jobs.Create(ctx, j.toModel(recruiterID)); err != nil {
				return fmt.Errorf("create job %q: %w", j.Title, err)
			}
			res.Created++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Result) count(created bool) {
	if created {
		r.Created++
	} else {
		r.Skipped++
	}
}

// createProfile returns nil when the email is already registered.
func createProfile(ctx context.Context, repos *repository.Repositories, p Person, role model.Role, passwordHash string) (*model.Profile, error) {
	_, err := repos.Profiles.FindByEmail(ctx, p.Email)
	if err == nil {
		return nil, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check profile %s: %w", p.Email, err)
	}

	id, err := uuid.Parse(p.ID)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", p.Email, err)
	}
	profile := &model.Profile{
		ID:           id,
		Email:        p.Email,
		Name:         p.Name,
		Role:         role,
		PasswordHash: passwordHash,
		Phone:        p.Phone,
		Location:     p.Location,
	}
	if err := repos.Profiles.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile %s: %w", p.Email, err)
	}
	return profile, nil
}

func (s Subscription) toModel(recruiterID uuid.UUID) *model.Subscription {
	plan, ok := model.Plans[model.PlanType(s.Type)]
	if !ok {
		plan = model.Plans[model.PlanStarter]
	}
	sub := &model.Subscription{
		RecruiterID:        recruiterID,
		Type:               plan.Type,
		Status:             model.SubscriptionStatus(s.Status),
		ContactsLimit:      plan.Limit(),
		ContactsUsed:       s.ContactsUsed,
		PriceMonthly:       plan.PriceMonthly,
		CurrentPeriodStart: s.PeriodStart,
	}
	if !s.PeriodEnd.IsZero() {
		end := s.PeriodEnd
		sub.CurrentPeriodEnd = &end
	}
	return sub
}

func (d Driver) toModel(id uuid.UUID) *model.Driver {
	availability := model.Availability(d.Availability)
	if availability == "" {
		availability = model.AvailabilityAvailable
	}
	return &model.Driver{
		ID:                  id,
		ExperienceYears:     d.ExperienceYears,
		LicenseTypes:        datatypes.JSONSlice[string](d.LicenseTypes),
		TWICCard:            d.TWICCard,
		HazmatEndorsement:   d.HazmatEndorsement,
		Availability:        availability,
		PreferredRoutes:     datatypes.JSONSlice[string](d.PreferredRoutes),
		EquipmentExperience: datatypes.JSONSlice[string](d.EquipmentExperience),
		FitScore:            d.FitScore,
		ProfileCompletion:   d.ProfileCompletion,
		DocumentsVerified:   d.DocumentsVerified,
		Bio:                 d.Bio,
	}
}

func (j Job) toModel(recruiterID uuid.UUID) *model.JobPosting {
	return &model.JobPosting{
		RecruiterID:  recruiterID,
		Title:        j.Title,
		Description:  j.Description,
		Location:     j.Location,
		JobType:      j.JobType,
		SalaryMin:    j.SalaryMin,
		SalaryMax:    j.SalaryMax,
		Requirements: datatypes.JSONSlice[string](j.Requirements),
		Benefits:     datatypes.JSONSlice[string](j.Benefits),
		Active:       true,
	}
}

func hasTitle(jobs []model.JobPosting, title string) bool {
	for _, j := range jobs {
		if j.Title == title {
			return true
		}
	}
	return false
}
