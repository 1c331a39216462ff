package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/opshift-dev/shift-planner/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var firstNames = []string{
	"Alex", "Jordan", "Casey", "Morgan", "Riley", "Taylor", "Avery",
	"Quinn", "Hayden", "Reese", "Sam", "Jamie", "Drew", "Blake",
	"Cameron", "Devon", "Emerson", "Finley", "Harper", "Kendall",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia",
	"Miller", "Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez",
	"Gonzalez", "Wilson", "Anderson", "Thomas", "Moore", "Jackson",
	"Martin", "Lee",
}

func GenerateRandomFullName() string {
	return firstNames[rand.Intn(len(firstNames))] + " " + lastNames[rand.Intn(len(lastNames))]
}

var digits = "0123456789"

func GenerateUsernameFromFullName(fullName string) string {
	username := strings.ToLower(strings.ReplaceAll(fullName, " ", "."))

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

var schedulableRoles = []domain.Role{
	domain.RoleOpener,
	domain.RoleCloser,
}

func GenerateRandomSchedulableRole() domain.Role {
	return schedulableRoles[rand.Intn(len(schedulableRoles))]
}

func GenerateRandomWorker(businessID int64, password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomFullName()
	username := GenerateUsernameFromFullName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		BusinessID:   businessID,
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         GenerateRandomSchedulableRole(),
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

var tokenRunes = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

// GenerateSessionToken returns an opaque builder session token.
func GenerateSessionToken(length int) string {
	token := make([]rune, length)
	for i := range token {
		token[i] = tokenRunes[rand.Intn(len(tokenRunes))]
	}
	return string(token)
}

var templateNames = []string{
	"Morning", "Midday", "Evening", "Close", "Open", "Weekend Rush",
	"Lunch Cover", "Inventory",
}

// GenerateRandomShiftTemplate produces a plausible template for seed
// data: a window somewhere between 06:00 and 23:00 with small role
// quotas.
func GenerateRandomShiftTemplate(businessID int64) *domain.ShiftTemplate {
	startHour := rand.Intn(12) + 6
	length := rand.Intn(7) + 2

	return &domain.ShiftTemplate{
		BusinessID:      businessID,
		Name:            templateNames[rand.Intn(len(templateNames))],
		DayOfWeek:       int32(rand.Intn(7) + 1),
		StartTime:       fmt.Sprintf("%02d:%02d", startHour, rand.Intn(4)*15),
		EndTime:         fmt.Sprintf("%02d:%02d", min(startHour+length, 23), rand.Intn(4)*15),
		BreakMinutes:    int32(rand.Intn(4) * 15),
		RequiredOpeners: int32(rand.Intn(3) + 1),
		RequiredClosers: int32(rand.Intn(3) + 1),
		IsActive:        true,
	}
}
