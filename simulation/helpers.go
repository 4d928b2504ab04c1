package simulation

import (
	"fmt"
	"log"
	"time"

	"github.com/shane-shim/statz-kr/models"
)

// LineupSize is the number of batters in a full batting order
const LineupSize = 9

// DefaultOpponents are the clubs of the home league, in schedule order
var DefaultOpponents = []string{
	"청룡 베이스볼", "화이트삭스", "레드불스", "블루윙스", "골든이글스",
	"실버스타즈", "그린몬스터즈", "블랙팬서스", "오렌지타이거즈", "퍼플드래곤즈",
}

// DefaultVenues are the ballparks games are drawn across
var DefaultVenues = []string{"잠실야구장", "목동야구장", "고척돔", "문학야구장", "대전한밭야구장"}

// buildGameSetup schedules game n of a season. Every random choice comes
// from the game's own stream so a season is reproducible from its seed.
func buildGameSetup(runID string, n int, cfg SeasonConfig, rng RandomSource) (GameSetup, error) {
	size := cfg.LineupSize
	if size == 0 {
		size = LineupSize
	}
	lineup, err := createLineup(cfg.Roster, size, rng)
	if err != nil {
		return GameSetup{}, err
	}

	pitchers := cfg.Roster.Pitchers()
	if len(pitchers) == 0 {
		return GameSetup{}, fmt.Errorf("%w: roster has no pitchers", models.ErrConfiguration)
	}

	opponents := cfg.Opponents
	if len(opponents) == 0 {
		opponents = DefaultOpponents
	}
	venues := cfg.Venues
	if len(venues) == 0 {
		venues = DefaultVenues
	}

	homeAway := models.Home
	if rng.Intn(2) == 1 {
		homeAway = models.Away
	}

	return GameSetup{
		GameID:         gameID(runID, n),
		Date:           cfg.StartDate.AddDate(0, 0, n).Format("2006-01-02"),
		Opponent:       opponents[(n-1)%len(opponents)],
		HomeAway:       homeAway,
		Venue:          venues[rng.Intn(len(venues))],
		Note:           fmt.Sprintf("Simulated game %d", n),
		Lineup:         lineup,
		Pitchers:       pitchers,
		Innings:        cfg.Innings,
		InningsPitched: cfg.InningsPitched,
	}, nil
}

func gameID(runID string, n int) string {
	return fmt.Sprintf("SIM%03d_%s", n, runID)
}

// createLineup samples a batting order of up to size players from the
// roster without replacement.
func createLineup(roster models.Roster, size int, rng RandomSource) ([]models.Player, error) {
	if len(roster.Players) == 0 {
		return nil, fmt.Errorf("%w: roster is empty", models.ErrConfiguration)
	}

	pool := make([]models.Player, len(roster.Players))
	copy(pool, roster.Players)

	size = min(size, len(pool))
	for i := 0; i < size; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:size], nil
}

func (se *SimulationEngine) getActiveRunsCount() int {
	se.mu.RLock()
	defer se.mu.RUnlock()
	return len(se.activeRuns)
}

// runPerformanceCleanup periodically cleans up old runs to prevent memory leaks
func (se *SimulationEngine) runPerformanceCleanup(done <-chan struct{}) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			se.CleanupOldRuns()
			log.Printf("Simulation engine cleanup: %d tracked runs", se.getActiveRunsCount())
		case <-done:
			return
		}
	}
}

// StartPerformanceMonitoring starts background cleanup until done is closed
func (se *SimulationEngine) StartPerformanceMonitoring(done <-chan struct{}) {
	go se.runPerformanceCleanup(done)
}
