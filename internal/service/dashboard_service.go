package service

import (
	"time"

	"go-depot-api/internal/repository"
)

type DashboardService interface {
	GetDailyFlow(days int) ([]repository.DailyFlowData, error)
	GetDashboardStats() (*repository.DashboardStats, error)
}

type dashboardService struct {
	movementRepo repository.MovementRepository
}

func NewDashboardService(movementRepo repository.MovementRepository) DashboardService {
	return &dashboardService{movementRepo: movementRepo}
}

func (s *dashboardService) GetDailyFlow(days int) ([]repository.DailyFlowData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.movementRepo.GetDailyFlow(startDate, endDate)
}

func (s *dashboardService) GetDashboardStats() (*repository.DashboardStats, error) {
	return s.movementRepo.GetDashboardStats()
}
