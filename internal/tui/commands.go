package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/platewise/internal/catalog"
	"github.com/julianstephens/platewise/internal/daylog"
	"github.com/julianstephens/platewise/internal/logger"
	"github.com/julianstephens/platewise/internal/models"
	"github.com/julianstephens/platewise/internal/session"
	"github.com/julianstephens/platewise/internal/submit"
)

type dayLoadedMsg struct {
	result daylog.Result
}

type catalogLoadedMsg struct {
	err error
}

type unitsLoadedMsg struct {
	err error
}

type submitDoneMsg struct {
	outcome submit.Outcome
	err     error
}

type loginDoneMsg struct {
	err error
}

type logoutDoneMsg struct{}

type foodCreatedMsg struct {
	food models.FoodItem
	err  error
}

type noticeTickMsg time.Time

func fetchDay(fetcher daylog.LogFetcher, req daylog.Request) tea.Cmd {
	return func() tea.Msg {
		return dayLoadedMsg{result: daylog.Fetch(context.Background(), fetcher, req)}
	}
}

func loadCatalog(p *catalog.Provider) tea.Cmd {
	return func() tea.Msg {
		return catalogLoadedMsg{err: p.LoadFoods(context.Background())}
	}
}

func loadUnits(p *catalog.Provider) tea.Cmd {
	return func() tea.Msg {
		return unitsLoadedMsg{err: p.LoadUnits(context.Background())}
	}
}

func sendBulk(s *submit.Submitter, req models.BulkLogRequest) tea.Cmd {
	return func() tea.Msg {
		out, err := s.Send(context.Background(), req)
		return submitDoneMsg{outcome: out, err: err}
	}
}

func login(s *session.Store, email, password string) tea.Cmd {
	return func() tea.Msg {
		return loginDoneMsg{err: s.Login(context.Background(), email, password)}
	}
}

func logout(s *session.Store) tea.Cmd {
	return func() tea.Msg {
		if err := s.Logout(context.Background()); err != nil {
			logger.Warn("logout failed", "error", err)
		}
		return logoutDoneMsg{}
	}
}

func createFood(s *catalog.Submitter, user models.User, d catalog.Draft) tea.Cmd {
	return func() tea.Msg {
		food, err := s.Submit(context.Background(), user, d)
		return foodCreatedMsg{food: food, err: err}
	}
}

func tickNotices() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return noticeTickMsg(t)
	})
}
