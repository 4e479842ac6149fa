package utils

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gigboard-dev/gigboard/internal/domain"
)

func TestGenerateEmailLocalPart(t *testing.T) {
	local := GenerateEmailLocalPart("王伟")
	assert.Regexp(t, regexp.MustCompile(`^wangwei[0-9]{1,3}$`), local)
}

func TestGenerateRandomUser(t *testing.T) {
	user, profile, err := GenerateRandomUser("Gigboard123", "example.com", domain.RoleWorker)
	require.NoError(t, err)

	assert.Equal(t, user.ID, profile.ID)
	assert.Equal(t, user.Email, profile.Email)
	assert.Regexp(t, `^[a-z]+[0-9]{1,3}@example\.com$`, user.Email)
	assert.Len(t, profile.Phone, 10)
	assert.NotEmpty(t, profile.Skills)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Gigboard123")))
}

func TestGenerateRandomJob(t *testing.T) {
	employer := uuid.New()
	for i := 0; i < 20; i++ {
		job := GenerateRandomJob(employer)
		assert.Equal(t, employer, job.EmployerID)
		assert.Equal(t, domain.JobStatusOpen, job.Status)
		assert.Positive(t, job.Payment)
		assert.GreaterOrEqual(t, job.Duration, int32(1))
		assert.LessOrEqual(t, job.Duration, int32(24))
		assert.Contains(t, jobTitles[job.Category], job.Title)
	}
}

func TestGenerateRandomSubset(t *testing.T) {
	arr := []int{1, 2, 3, 4}
	for i := 0; i < 20; i++ {
		subset := GenerateRandomSubset(arr)
		assert.NotEmpty(t, subset)
		assert.Subset(t, arr, subset)
	}
	assert.Equal(t, []int{1, 2, 3, 4}, arr)
	assert.Empty(t, GenerateRandomSubset([]int{}))
}
