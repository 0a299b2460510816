package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"skillpath/internal/docparse"
	"skillpath/internal/llm"
	"skillpath/internal/repository"

	"github.com/google/uuid"
)

const (
	resumeSkillLevel    = "intermediate"
	resumeSkillSource   = "resume"
	resumeSkillCategory = "technical"
)

// ResumeExtractor is the structured-completion boundary for resume parsing.
type ResumeExtractor interface {
	Extract(ctx context.Context, rawText string) (llm.ResumeData, error)
}

// DocumentParser extracts plain text from an uploaded document.
type DocumentParser interface {
	Supported(fileName string) bool
	ExtractText(fileName string, data []byte) (string, error)
}

type ResumeResult struct {
	ResumeID uuid.UUID
	RawText  string
	Parsed   llm.ResumeData
}

type ResumeUsecase interface {
	// ProcessUpload extracts text from the uploaded document, parses it into
	// a structured profile and records the resume. Extracted skills are
	// upserted into the shared catalog and linked to the user as a side
	// effect; a failing catalog write is logged and skipped, it does not
	// fail the upload.
	ProcessUpload(ctx context.Context, userID uuid.UUID, fileName string, data []byte) (ResumeResult, error)
}

type Resume struct {
	parser     DocumentParser
	extractor  ResumeExtractor
	resumes    repository.ResumeRepository
	skills     repository.SkillRepository
	userSkills repository.UserSkillRepository
	logger     *log.Logger
}

func NewResumeUsecase(
	parser DocumentParser,
	extractor ResumeExtractor,
	resumes repository.ResumeRepository,
	skills repository.SkillRepository,
	userSkills repository.UserSkillRepository,
	logger *log.Logger,
) *Resume {
	if parser == nil {
		parser = docparse.Parser{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Resume{
		parser:     parser,
		extractor:  extractor,
		resumes:    resumes,
		skills:     skills,
		userSkills: userSkills,
		logger:     logger,
	}
}

func (u *Resume) ProcessUpload(ctx context.Context, userID uuid.UUID, fileName string, data []byte) (ResumeResult, error) {
	if userID == uuid.Nil {
		return ResumeResult{}, ErrInvalidInput
	}
	if strings.TrimSpace(fileName) == "" || len(data) == 0 {
		return ResumeResult{}, ErrInvalidInput
	}
	if !u.parser.Supported(fileName) {
		return ResumeResult{}, ErrUnsupportedFormat
	}

	rawText, err := u.parser.ExtractText(fileName, data)
	if err != nil {
		return ResumeResult{}, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	if strings.TrimSpace(rawText) == "" {
		return ResumeResult{}, fmt.Errorf("%w: document contains no text", ErrExtraction)
	}

	parsed, err := u.extractor.Extract(ctx, rawText)
	if err != nil {
		// Fail loud: a hallucinated or empty profile is worse than a
		// visible error, so no fallback structure is substituted.
		return ResumeResult{}, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	parsedJSON, err := json.Marshal(parsed)
	if err != nil {
		return ResumeResult{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	created, err := u.resumes.Create(ctx, repository.Resume{
		UserID:     userID,
		FileName:   fileName,
		RawText:    rawText,
		ParsedData: parsedJSON,
	})
	if err != nil {
		return ResumeResult{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	u.upsertExtractedSkills(ctx, userID, parsed.Skills)

	return ResumeResult{ResumeID: created.ID, RawText: rawText, Parsed: parsed}, nil
}

func (u *Resume) upsertExtractedSkills(ctx context.Context, userID uuid.UUID, names []string) {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		// Skill names are case-sensitive keys, preserved as the model
		// returned them.
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		skill, err := u.skills.UpsertByName(ctx, name, resumeSkillCategory)
		if err != nil {
			u.logger.Printf("[Resume] skill upsert failed name=%q user=%s err=%v", name, userID, err)
			continue
		}

		err = u.userSkills.Upsert(ctx, repository.UserSkill{
			UserID:  userID,
			SkillID: skill.ID,
			Level:   resumeSkillLevel,
			Source:  resumeSkillSource,
		})
		if err != nil {
			u.logger.Printf("[Resume] user skill upsert failed skill=%s user=%s err=%v", skill.ID, userID, err)
		}
	}
}
