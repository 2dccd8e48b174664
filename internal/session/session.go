package session

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

// Session cookie name constant to ensure consistency
const SessionCookieName = "veriplagio_session"

const reportKey = "report_id"

// Manager binds a browser to the reports it generated, so the plain
// download route can find the caller's most recent document without an
// explicit token. This is not authentication; it only keeps concurrent
// users from reading each other's output.
type Manager struct {
	logger *log.Logger
	store  *sessions.CookieStore
}

// NewManager creates a new session manager
func NewManager(logger *log.Logger, store *sessions.CookieStore) *Manager {
	return &Manager{
		logger: logger,
		store:  store,
	}
}

// RememberReport stores the report ID in the caller's session.
func (m *Manager) RememberReport(c *gin.Context, reportID string) error {
	sess, err := m.store.Get(c.Request, SessionCookieName)
	if err != nil {
		// A stale or undecodable cookie; start over with a fresh session.
		sess = sessions.NewSession(m.store, SessionCookieName)
		sess.Options = m.store.Options
	}

	sess.Values[reportKey] = reportID

	if err := m.store.Save(c.Request, c.Writer, sess); err != nil {
		m.logger.Printf("Failed to save session: %v", err)
		return err
	}

	return nil
}

// LastReport returns the report ID from the caller's session.
func (m *Manager) LastReport(c *gin.Context) (string, error) {
	sess, err := m.store.Get(c.Request, SessionCookieName)
	if err != nil {
		return "", err
	}

	value, exists := sess.Values[reportKey]
	if !exists {
		return "", fmt.Errorf("no report in session")
	}

	reportID, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("report ID is not a string, it's %T", value)
	}

	return reportID, nil
}
