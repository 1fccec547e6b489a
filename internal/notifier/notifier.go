// Package notifier delivers user-facing notifications through the companion
// tray app when it is running, or as a desktop notification otherwise.
package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/quitline/internal/constants"
	"github.com/julianstephens/quitline/internal/logger"
	"github.com/julianstephens/quitline/internal/tracker"
)

const trayExecutable = "quitline-tray"

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
	desktopNotify     = func(title, message string) error {
		return beeep.Notify(title, message, "")
	}
)

// ErrTrayNotRunning is returned when no live tray process owns the lockfile.
var ErrTrayNotRunning = errors.New("quitline-tray is not running")

type WebhookPayload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

// Notifier sends notifications. A disabled Notifier drops everything.
type Notifier struct {
	enabled bool
	client  *http.Client
}

func New(enabled bool) *Notifier {
	return &Notifier{
		enabled: enabled,
		client:  &http.Client{Timeout: 2 * time.Second},
	}
}

// Enabled reports whether notifications are delivered.
func (n *Notifier) Enabled() bool { return n.enabled }

// Send delivers text through the tray app, falling back to a desktop
// notification when the tray is unavailable.
func (n *Notifier) Send(text string) error {
	if !n.enabled {
		return nil
	}

	err := n.sendTray(text)
	if err == nil {
		return nil
	}
	logger.Debug("Tray notification unavailable, using desktop", "error", err)

	if err := desktopNotify(constants.AppName, text); err != nil {
		return fmt.Errorf("failed to send desktop notification: %w", err)
	}
	return nil
}

func (n *Notifier) sendTray(text string) error {
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		return err
	}

	port, secret, err := findAndValidateTrayProcess(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	return n.sendNotification(port, secret, WebhookPayload{
		Text:       text,
		DurationMs: constants.NotificationDurationMs,
	})
}

// GetTrayAppConfigDir returns the configuration directory used by the tray
// application, honouring a lockfile_dir override in its settings.json.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	data, err := os.ReadFile(filepath.Join(trayConfigDir, "settings.json"))
	if err != nil {
		return trayConfigDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err == nil {
		if dir := store.Settings.LockfileDir; dir != nil && *dir != "" {
			return *dir, nil
		}
	}
	return trayConfigDir, nil
}

// findAndValidateTrayProcess reads a "port|pid|secret" lockfile and checks
// that the pid belongs to a running tray process.
func findAndValidateTrayProcess(lockfilePath string) (string, string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", "", ErrTrayNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return "", "", errors.New("lockfile is malformed")
	}

	port := strings.TrimSpace(parts[0])
	if port == "" {
		return "", "", errors.New("port in lockfile is empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", "", errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", "", errors.New("invalid process ID in lockfile")
	}
	secret := parts[2]
	if strings.TrimSpace(secret) == "" {
		return "", "", errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", "", ErrTrayNotRunning
	}

	if !strings.HasPrefix(process.Executable(), trayExecutable) {
		return "", "", fmt.Errorf("process with PID %d is not %s (is %s)", pid, trayExecutable, process.Executable())
	}

	return port, secret, nil
}

func (n *Notifier) sendNotification(port string, secret string, payload WebhookPayload) error {
	url := fmt.Sprintf("http://127.0.0.1:%s", port)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Quitline-Secret", secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(body))
}

// Logging returns a tracker.Notifier that records every notification in the
// log. Failures go out at warn level.
func Logging() tracker.Notifier {
	return tracker.NotifierFunc(func(note tracker.Notification) {
		if note.Severity == tracker.SeverityError {
			logger.Warn("Tracker operation failed", "message", note.Message)
			return
		}
		logger.Debug("Tracker operation succeeded", "message", note.Message)
	})
}
