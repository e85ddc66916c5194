package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PaperType categorizes a sample paper.
type PaperType string

// Allowed paper types.
const (
	PaperTypePreviousYear PaperType = "previous_year"
	PaperTypeMock         PaperType = "mock"
	PaperTypeSample       PaperType = "sample"
)

// SectionType categorizes a section within a paper.
type SectionType string

// Allowed section types.
const (
	SectionTypeDefault SectionType = "default"
	SectionTypeCustom  SectionType = "custom"
)

// QuestionType categorizes a question within a section.
type QuestionType string

// Allowed question types.
const (
	QuestionTypeShort          QuestionType = "short"
	QuestionTypeLong           QuestionType = "long"
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
)

// Validation errors for Paper and its nested entities.
var (
	ErrEmptyPaperID    = errors.New("paper ID cannot be empty")
	ErrEmptyTitle      = errors.New("paper title cannot be empty")
	ErrNonPositiveTime = errors.New("paper time must be a positive number of minutes")
	ErrNonPositiveMark = errors.New("marks must be positive")
	ErrNoSections      = errors.New("paper must contain at least one section")
	ErrNoQuestions     = errors.New("section must contain at least one question")
)

// Question is a single question/answer pair inside a section.
type Question struct {
	Question     string         `json:"question"`
	Answer       string         `json:"answer"`
	Type         QuestionType   `json:"type"`
	QuestionSlug string         `json:"question_slug"`
	ReferenceID  string         `json:"reference_id"`
	Hint         string         `json:"hint,omitempty"`
	Params       map[string]any `json:"params,omitempty"`
}

// Validate checks the question fields against the allowed value sets.
func (q *Question) Validate() error {
	switch q.Type {
	case QuestionTypeShort, QuestionTypeLong, QuestionTypeMultipleChoice:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidQuestionType, q.Type)
	}
	return nil
}

// Section groups questions that share a per-question mark value and type.
// Question ordering is significant and preserved across read/update cycles.
type Section struct {
	MarksPerQuestion int         `json:"marks_per_question"`
	Type             SectionType `json:"type"`
	Questions        []Question  `json:"questions"`
}

// Validate checks the section and all of its questions.
func (s *Section) Validate() error {
	if s.MarksPerQuestion <= 0 {
		return fmt.Errorf("%w: marks_per_question", ErrNonPositiveMark)
	}
	switch s.Type {
	case SectionTypeDefault, SectionTypeCustom:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidSectionType, s.Type)
	}
	if len(s.Questions) == 0 {
		return ErrNoQuestions
	}
	for i := range s.Questions {
		if err := s.Questions[i].Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return nil
}

// PaperParams holds the curricular metadata attached to a paper.
type PaperParams struct {
	Board   string `json:"board"`
	Grade   int    `json:"grade"`
	Subject string `json:"subject"`
}

// Paper is the exam-document aggregate: metadata plus an ordered sequence
// of sections. The ID is assigned once at creation and never changes.
type Paper struct {
	ID        uuid.UUID   `json:"p_id"`
	Title     string      `json:"title"`
	Type      PaperType   `json:"type"`
	Time      int         `json:"time"`
	Marks     int         `json:"marks"`
	Params    PaperParams `json:"params"`
	Tags      []string    `json:"tags"`
	Chapters  []string    `json:"chapters"`
	Sections  []Section   `json:"sections"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewPaper creates a Paper from a draft, assigning a fresh ID and
// timestamps. Returns a validation error if the draft is incomplete.
func NewPaper(draft Paper) (*Paper, error) {
	now := time.Now().UTC()
	paper := draft
	paper.ID = uuid.New()
	paper.CreatedAt = now
	paper.UpdatedAt = now

	if err := paper.Validate(); err != nil {
		return nil, err
	}
	return &paper, nil
}

// Validate checks the paper and all nested sections and questions.
// All failures wrap ErrValidation so callers can classify them.
func (p *Paper) Validate() error {
	if err := p.validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func (p *Paper) validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyPaperID
	}
	if p.Title == "" {
		return ErrEmptyTitle
	}
	switch p.Type {
	case PaperTypePreviousYear, PaperTypeMock, PaperTypeSample:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPaperType, p.Type)
	}
	if p.Time <= 0 {
		return ErrNonPositiveTime
	}
	if p.Marks <= 0 {
		return fmt.Errorf("%w: marks", ErrNonPositiveMark)
	}
	if len(p.Sections) == 0 {
		return ErrNoSections
	}
	for i := range p.Sections {
		if err := p.Sections[i].Validate(); err != nil {
			return fmt.Errorf("section %d: %w", i, err)
		}
	}
	return nil
}

// PaperUpdate describes a partial update to a paper. Nil fields are left
// unchanged; slice fields replace the existing value wholesale rather than
// being merged element-wise.
type PaperUpdate struct {
	Title    *string      `json:"title"`
	Type     *PaperType   `json:"type"`
	Time     *int         `json:"time"`
	Marks    *int         `json:"marks"`
	Params   *PaperParams `json:"params"`
	Tags     *[]string    `json:"tags"`
	Chapters *[]string    `json:"chapters"`
	Sections *[]Section   `json:"sections"`
}

// Apply merges the update into the paper and refreshes UpdatedAt. The
// paper's ID is immutable and never touched. The result is not validated;
// callers validate before persisting.
func (p *Paper) Apply(u PaperUpdate) {
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Type != nil {
		p.Type = *u.Type
	}
	if u.Time != nil {
		p.Time = *u.Time
	}
	if u.Marks != nil {
		p.Marks = *u.Marks
	}
	if u.Params != nil {
		p.Params = *u.Params
	}
	if u.Tags != nil {
		p.Tags = *u.Tags
	}
	if u.Chapters != nil {
		p.Chapters = *u.Chapters
	}
	if u.Sections != nil {
		p.Sections = *u.Sections
	}
	p.UpdatedAt = time.Now().UTC()
}
