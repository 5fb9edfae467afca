package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Dan9191/finance-tracker/internal/analytics"
	"github.com/Dan9191/finance-tracker/internal/calendar"
	"github.com/Dan9191/finance-tracker/internal/models"
	"github.com/Dan9191/finance-tracker/internal/service/mocks"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func TestService_Goals(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	svc := NewService(store, quietLogger(), testConfig(), nil, march15)

	store.EXPECT().ActiveGoals(gomock.Any()).Return([]models.Goal{
		{ID: 1, CategoryID: 2, CategoryName: "Food", CapAmount: decimal.NewFromInt(1500), IsActive: true},
		{ID: 2, CategoryID: 3, CategoryName: "Fun", CapAmount: decimal.NewFromInt(100), IsActive: true},
	}, nil)
	store.EXPECT().GetOrCreateSettings(gomock.Any()).Return(fixedSettings(3000), nil)
	expectLedger(store, []models.Transaction{
		entry(calendar.Date(2024, 2, 3), "800", models.Debit, "Food"),
		entry(calendar.Date(2024, 3, 1), "50000", models.Credit, "Salary"),
		entry(calendar.Date(2024, 3, 2), "1000", models.Debit, "Food"),
		entry(calendar.Date(2024, 3, 3), "200", models.Credit, "Food"),
	})

	progress, err := svc.Goals(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(progress) != 2 {
		t.Fatalf("expected 2 goals, got %d", len(progress))
	}
	if progress[0].CurrentSpend != 1000 || progress[0].ProgressPercent != 66.7 || progress[0].IsOverBudget {
		t.Errorf("unexpected food progress %+v", progress[0])
	}
	if progress[1].CurrentSpend != 0 || progress[1].ProgressPercent != 0 {
		t.Errorf("unexpected fun progress %+v", progress[1])
	}
}

func TestService_Goals_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	svc := NewService(store, quietLogger(), testConfig(), nil, march15)
	store.EXPECT().ActiveGoals(gomock.Any()).Return(nil, nil)

	progress, err := svc.Goals(context.Background())
	if err != nil || progress == nil || len(progress) != 0 {
		t.Errorf("expected empty list, got %v %v", progress, err)
	}
}

func TestService_CreateGoal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	svc := NewService(store, quietLogger(), testConfig(), nil, march15)

	store.EXPECT().CreateGoal(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, g *models.Goal) error {
			g.ID = 9
			g.CategoryName = "Food"
			return nil
		})

	g, err := svc.CreateGoal(context.Background(), models.Goal{CategoryID: 2, CapAmount: decimal.NewFromInt(500), CreatedVia: " Chatbot "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.ID != 9 || g.CreatedVia != models.GoalChatbot || !g.IsActive {
		t.Errorf("unexpected goal %+v", g)
	}

	invalid := []models.Goal{
		{CapAmount: decimal.NewFromInt(500)},
		{CategoryID: 2, CapAmount: decimal.NewFromInt(-1)},
		{CategoryID: 2, CreatedVia: "import"},
	}
	for _, in := range invalid {
		if _, err := svc.CreateGoal(context.Background(), in); !errors.Is(err, models.ErrInvalidGoal) {
			t.Errorf("expected ErrInvalidGoal for %+v, got %v", in, err)
		}
	}
}

func TestService_UpdateAndDeleteGoal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	svc := NewService(store, quietLogger(), testConfig(), nil, march15)

	capAmount := decimal.NewFromInt(700)
	store.EXPECT().UpdateGoal(gomock.Any(), int64(4), models.GoalUpdate{CapAmount: &capAmount}).
		Return(&models.Goal{ID: 4, CapAmount: capAmount}, nil)
	store.EXPECT().UpdateGoal(gomock.Any(), int64(5), gomock.Any()).Return(nil, models.ErrGoalNotFound)
	store.EXPECT().DeleteGoal(gomock.Any(), int64(4)).Return(nil)

	g, err := svc.UpdateGoal(context.Background(), 4, models.GoalUpdate{CapAmount: &capAmount})
	if err != nil || !g.CapAmount.Equal(capAmount) {
		t.Errorf("unexpected update %+v %v", g, err)
	}
	if _, err := svc.UpdateGoal(context.Background(), 5, models.GoalUpdate{}); !errors.Is(err, models.ErrGoalNotFound) {
		t.Errorf("expected ErrGoalNotFound, got %v", err)
	}
	negative := decimal.NewFromInt(-5)
	if _, err := svc.UpdateGoal(context.Background(), 4, models.GoalUpdate{CapAmount: &negative}); !errors.Is(err, models.ErrInvalidGoal) {
		t.Errorf("expected ErrInvalidGoal, got %v", err)
	}
	if err := svc.DeleteGoal(context.Background(), 4); err != nil {
		t.Errorf("unexpected delete error: %v", err)
	}
}

func affordabilityLedger() []models.Transaction {
	return []models.Transaction{
		entry(calendar.Date(2024, 1, 10), "50000", models.Credit, "Salary"),
		entry(calendar.Date(2024, 1, 12), "4000", models.Debit, "Food"),
		entry(calendar.Date(2024, 2, 10), "50000", models.Credit, "Salary"),
		entry(calendar.Date(2024, 2, 12), "6000", models.Debit, "Food"),
		entry(calendar.Date(2024, 3, 5), "9000", models.Debit, "Food"),
	}
}

func TestService_Affordability_Fixed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	svc := NewService(store, quietLogger(), testConfig(), nil, march15)

	store.EXPECT().GetOrCreateSettings(gomock.Any()).Return(fixedSettings(10000), nil)
	store.EXPECT().FetchTransactions(gomock.Any(), calendar.Date(2023, 12, 16), calendar.Date(2024, 3, 15)).
		Return(affordabilityLedger(), nil)

	r, err := svc.Affordability(context.Background(), models.AffordabilityRequest{MonthlyExpense: 2000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.CurrentAvgSpend != 5000 || r.BudgetRemainingAfter != 3000 || !r.CanAfford {
		t.Errorf("unexpected result %+v", r)
	}
	if r.Recommendation != analytics.RecommendComfortable {
		t.Errorf("unexpected recommendation %q", r.Recommendation)
	}
}

func TestService_Affordability_Percentage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockStore(ctrl)
	svc := NewService(store, quietLogger(), testConfig(), nil, march15)

	settings := fixedSettings(40)
	settings.BudgetType = models.BudgetPercentage
	store.EXPECT().GetOrCreateSettings(gomock.Any()).Return(settings, nil)
	store.EXPECT().FetchTransactions(gomock.Any(), calendar.Date(2023, 12, 16), calendar.Date(2024, 3, 15)).
		Return(affordabilityLedger(), nil)
	store.EXPECT().FetchTransactions(gomock.Any(), calendar.Date(2023, 3, 6), calendar.Date(2024, 2, 29)).
		Return(affordabilityLedger()[:4], nil)

	r, err := svc.Affordability(context.Background(), models.AffordabilityRequest{MonthlyExpense: 12000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.CurrentBudget != 20000 || r.ProjectedSpendWithNew != 17000 || r.Recommendation != analytics.RecommendAffordable {
		t.Errorf("unexpected result %+v", r)
	}
	if r.ImpactPercent != 60 {
		t.Errorf("expected 60%% impact, got %.1f", r.ImpactPercent)
	}
}

func TestService_Affordability_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewService(mocks.NewMockStore(ctrl), quietLogger(), testConfig(), nil, march15)
	if _, err := svc.Affordability(context.Background(), models.AffordabilityRequest{MonthlyExpense: -1}); !errors.Is(err, models.ErrInvalidSimulation) {
		t.Errorf("expected ErrInvalidSimulation, got %v", err)
	}
}
