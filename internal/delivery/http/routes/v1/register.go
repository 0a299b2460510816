package v1

import (
	"log"
	"time"

	"skillpath/internal/database"
	"skillpath/internal/delivery/http/handler"
	"skillpath/internal/docparse"
	"skillpath/internal/llm"
	"skillpath/internal/repository"
	"skillpath/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type Deps struct {
	DB        database.DB
	Cache     usecase.RoadmapCache
	Completer llm.Completer
	CacheTTL  time.Duration
	Logger    *log.Logger
}

func Register(r fiber.Router, deps Deps) {
	if r == nil {
		return
	}

	skillRepo := repository.NewPostgresSkillRepository(deps.DB)
	userSkillRepo := repository.NewPostgresUserSkillRepository(deps.DB)
	profileRepo := repository.NewPostgresProfileRepository(deps.DB)
	resumeRepo := repository.NewPostgresResumeRepository(deps.DB)
	roadmapRepo := repository.NewPostgresRoadmapRepository(deps.DB)
	progressRepo := repository.NewPostgresTaskProgressRepository(deps.DB)

	extractor := llm.NewExtractor(deps.Completer)
	generator := llm.NewGenerator(deps.Completer)

	resumeUC := usecase.NewResumeUsecase(docparse.Parser{}, extractor, resumeRepo, skillRepo, userSkillRepo, deps.Logger)
	roadmapUC := usecase.NewRoadmapUsecase(generator, roadmapRepo, userSkillRepo, profileRepo, deps.Cache, deps.CacheTTL, deps.Logger)
	progressUC := usecase.NewProgressUsecase(progressRepo, deps.Cache, deps.Logger)
	skillUC := usecase.NewSkillUsecase(skillRepo)

	handler.NewResumeHandler(resumeUC).RegisterRoutes(r)
	handler.NewRoadmapHandler(roadmapUC).RegisterRoutes(r)
	handler.NewProgressHandler(progressUC).RegisterRoutes(r)
	handler.NewSkillHandler(skillUC).RegisterRoutes(r)
}
