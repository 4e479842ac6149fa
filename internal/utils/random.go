package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mozillazg/go-pinyin"
	"golang.org/x/crypto/bcrypt"

	"github.com/gigboard-dev/gigboard/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

// GenerateEmailLocalPart spells the name in pinyin and appends up to three digits.
func GenerateEmailLocalPart(chineseName string) string {
	var sb strings.Builder
	for _, syllable := range pinyin.LazyConvert(chineseName, nil) {
		sb.WriteString(syllable)
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		sb.WriteByte(digits[rand.Intn(len(digits))])
	}

	return sb.String()
}

func GenerateRandomPhone() string {
	phone := make([]byte, 10)
	phone[0] = '0'
	for i := 1; i < len(phone); i++ {
		phone[i] = digits[rand.Intn(len(digits))]
	}
	return string(phone)
}

// GenerateRandomUser returns an account with its profile. Both share one id.
func GenerateRandomUser(password, emailDomainName string, role domain.Role) (*domain.User, *domain.Profile, error) {
	fullName := GenerateRandomChineseName()
	email := GenerateEmailLocalPart(fullName) + "@" + emailDomainName
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	id := uuid.New()
	user := &domain.User{
		ID:           id,
		Email:        email,
		PasswordHash: string(passwordHash),
	}
	profile := &domain.Profile{
		ID:       id,
		Email:    email,
		FullName: fullName,
		Phone:    GenerateRandomPhone(),
		Role:     role,
		Location: locations[rand.Intn(len(locations))],
		Skills:   GenerateRandomSubset(skills),
	}

	return user, profile, nil
}

var locations = []string{"广州", "深圳", "珠海", "佛山", "东莞"}

var skills = []string{"搬运", "驾驶", "烹饪", "清洁", "园艺", "组装家具"}

var jobTitles = map[string][]string{
	"moving":    {"搬家帮手", "钢琴搬运", "办公室搬迁"},
	"catering":  {"婚宴服务员", "会议茶歇", "生日派对厨师"},
	"cleaning":  {"新房开荒", "办公室保洁", "退租清洁"},
	"gardening": {"草坪修剪", "花园除草", "阳台绿化"},
	"other":     {"活动布置", "传单派发", "展会协助"},
}

var letters = []rune("abcdefghijklmnopqrstuvwxyz0123456789")

func GenerateRandomID(length int) string {
	id := make([]rune, length)
	for i := range id {
		id[i] = letters[rand.Intn(len(letters))]
	}
	return string(id)
}

// GenerateRandomJob returns an open job for employerID dated within the next two weeks.
func GenerateRandomJob(employerID uuid.UUID) *domain.Job {
	category := domain.Categories[rand.Intn(len(domain.Categories))].Value
	titles := jobTitles[category]
	location := locations[rand.Intn(len(locations))]

	return &domain.Job{
		ID:          uuid.New(),
		Title:       titles[rand.Intn(len(titles))],
		Description: fmt.Sprintf("%s，地点%s，编号 %s", titles[0], location, GenerateRandomID(6)),
		Category:    category,
		Location:    location,
		Payment:     float64(rand.Intn(40)+8) * 10,
		Duration:    int32(rand.Intn(8) + 1),
		Date:        time.Now().Add(time.Duration(rand.Intn(14*24)+24) * time.Hour).Truncate(time.Hour),
		Status:      domain.JobStatusOpen,
		EmployerID:  employerID,
	}
}

// GenerateRandomSubset uses a Fisher-Yates shuffle and keeps at least one element.
func GenerateRandomSubset[T any](arr []T) []T {
	arrCopy := append([]T{}, arr...)

	for i := 0; i < len(arrCopy)-1; i++ {
		j := rand.Intn(len(arrCopy)-i) + i
		arrCopy[i], arrCopy[j] = arrCopy[j], arrCopy[i]
	}

	if len(arrCopy) == 0 {
		return arrCopy
	}
	l := rand.Intn(len(arrCopy)) + 1
	return arrCopy[:l]
}
