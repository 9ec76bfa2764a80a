package seeder

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/Rana718/tablesmith/internal/types"
	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
)

const (
	// NullProbability is the chance a nullable column is left NULL.
	NullProbability = 0.15
	// DateWindowYears bounds how far back synthesized dates may reach.
	DateWindowYears = 1

	dateTimeLayout = "2006-01-02 15:04:05"
	dateLayout     = "2006-01-02"
	tokenAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// Synthesizer produces plausible values for a column from its name and
// semantic type. It is not safe for concurrent use.
type Synthesizer struct {
	rand   *rand.Rand
	now    func() time.Time
	emails map[string]struct{}
}

func NewSynthesizer() *Synthesizer {
	return NewSynthesizerWithSeed(time.Now().UnixNano())
}

func NewSynthesizerWithSeed(seed int64) *Synthesizer {
	return &Synthesizer{
		rand:   rand.New(rand.NewSource(seed)),
		now:    time.Now,
		emails: make(map[string]struct{}),
	}
}

// Synthesize never fails; unknown types fall back to a single word.
func (s *Synthesizer) Synthesize(column string, t types.SemanticType) interface{} {
	name := strings.ToLower(column)

	switch {
	case t.IsTextual():
		return s.textFor(name)
	case t.IsInteger():
		return s.rand.Intn(1000) + 1
	case t.IsDateTimeFamily():
		return s.pastTime().Format(dateTimeLayout)
	}

	switch t {
	case types.TypeDate:
		return s.pastTime().Format(dateLayout)
	case types.TypeBoolean:
		return s.rand.Intn(2) == 1
	case types.TypeFloat, types.TypeDecimal:
		return math.Round(s.rand.Float64()*1000*100) / 100
	case types.TypeUUID:
		return uuid.NewString()
	case types.TypeJSON:
		return fmt.Sprintf(`{"%s":"%s"}`, faker.Word(), faker.Word())
	}

	if strings.HasSuffix(name, "_at") {
		return s.pastTime().Format(dateTimeLayout)
	}
	return faker.Word()
}

// Nullify reports whether a nullable column should be left NULL this time.
func (s *Synthesizer) Nullify() bool {
	return s.rand.Float64() < NullProbability
}

func (s *Synthesizer) RandomString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = tokenAlphabet[s.rand.Intn(len(tokenAlphabet))]
	}
	return string(b)
}

func (s *Synthesizer) textFor(name string) string {
	switch {
	case strings.Contains(name, "email"):
		return s.uniqueEmail()
	case strings.Contains(name, "name"):
		return faker.FirstName() + " " + faker.LastName()
	case strings.Contains(name, "title"):
		return s.words(3)
	case strings.Contains(name, "phone"):
		return faker.Phonenumber()
	default:
		return s.words(3)
	}
}

func (s *Synthesizer) uniqueEmail() string {
	email := strings.ToLower(faker.Email())
	for n := 1; ; n++ {
		if _, taken := s.emails[email]; !taken {
			s.emails[email] = struct{}{}
			return email
		}
		local, domain, _ := strings.Cut(email, "@")
		email = fmt.Sprintf("%s%d@%s", strings.TrimRight(local, "0123456789"), n, domain)
	}
}

func (s *Synthesizer) words(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = faker.Word()
	}
	return strings.Join(words, " ")
}

func (s *Synthesizer) pastTime() time.Time {
	now := s.now()
	from := now.AddDate(-DateWindowYears, 0, 0)
	span := now.Sub(from)
	return from.Add(time.Duration(s.rand.Int63n(int64(span) + 1)))
}
