package app

import (
	"fmt"

	"github.com/allisson/webhooks/internal/database"
	tenantRepository "github.com/allisson/webhooks/internal/tenant/repository"
	tenantService "github.com/allisson/webhooks/internal/tenant/service"
	tenantUsecase "github.com/allisson/webhooks/internal/tenant/usecase"
)

// MembershipRepository returns the company membership repository based on database driver.
func (c *Container) MembershipRepository() (tenantUsecase.MembershipRepository, error) {
	var err error
	c.membershipRepositoryInit.Do(func() {
		c.membershipRepository, err = c.initMembershipRepository()
		if err != nil {
			c.initErrors["membershipRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["membershipRepository"]; exists {
		return nil, storedErr
	}
	return c.membershipRepository, nil
}

// MembershipUseCase returns the membership use case.
func (c *Container) MembershipUseCase() (tenantUsecase.MembershipUseCase, error) {
	var err error
	c.membershipUseCaseInit.Do(func() {
		c.membershipUseCase, err = c.initMembershipUseCase()
		if err != nil {
			c.initErrors["membershipUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["membershipUseCase"]; exists {
		return nil, storedErr
	}
	return c.membershipUseCase, nil
}

// CompanyResolver returns the cached actor to company resolver used by the delivery engine.
func (c *Container) CompanyResolver() (*tenantService.CachedResolver, error) {
	var err error
	c.companyResolverInit.Do(func() {
		c.companyResolver, err = c.initCompanyResolver()
		if err != nil {
			c.initErrors["companyResolver"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["companyResolver"]; exists {
		return nil, storedErr
	}
	return c.companyResolver, nil
}

func (c *Container) initMembershipRepository() (tenantUsecase.MembershipRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for membership repository: %w", err)
	}

	switch c.config.DBDriver {
	case database.DriverMySQL:
		return tenantRepository.NewMySQLMembershipRepository(db), nil
	case database.DriverPostgres:
		return tenantRepository.NewPostgreSQLMembershipRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initMembershipUseCase() (tenantUsecase.MembershipUseCase, error) {
	membershipRepository, err := c.MembershipRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get membership repository for membership use case: %w", err)
	}
	resolver, err := c.CompanyResolver()
	if err != nil {
		return nil, fmt.Errorf("failed to get company resolver for membership use case: %w", err)
	}
	return tenantUsecase.NewMembershipUseCase(membershipRepository, resolver), nil
}

func (c *Container) initCompanyResolver() (*tenantService.CachedResolver, error) {
	membershipRepository, err := c.MembershipRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get membership repository for company resolver: %w", err)
	}
	return tenantService.NewCachedResolver(membershipRepository, c.config.TenantCacheTTL), nil
}
