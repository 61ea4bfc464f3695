package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/health-referral-api/config"
	"github.com/oksasatya/health-referral-api/internal/application"
	repo "github.com/oksasatya/health-referral-api/internal/domain/repository"
	"github.com/oksasatya/health-referral-api/pkg/helpers"
)

// Container holds the components built at startup. Router modules wire their
// services and handlers from it. Optional collaborators are nil interfaces when
// not configured.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Users repo.UserRepository
	Cases repo.CaseRepository

	JWT   *helpers.JWTManager
	Redis *redis.Client

	Images application.ImageUploader
	Events application.CaseEventPublisher
	Search application.CaseSearcher
}

func (c *Container) AuthService() *application.AuthService {
	return application.NewAuthService(c.Users, c.JWT, c.Logger)
}

func (c *Container) AdminService() *application.AdminService {
	return application.NewAdminService(c.Users, c.Logger)
}

func (c *Container) CaseService() *application.CaseService {
	prefix := ""
	if c.Config != nil {
		prefix = c.Config.GCSCasePrefix
	}
	return application.NewCaseService(c.Cases, c.Users, c.Images, c.Events, c.Search, c.Logger, prefix)
}
