package notifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/quitline/internal/constants"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func stubConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := userConfigDirFunc
	t.Cleanup(func() { userConfigDirFunc = old })
	userConfigDirFunc = func() (string, error) { return dir, nil }
	return dir
}

func stubDesktop(t *testing.T, err error) *[]string {
	t.Helper()
	var sent []string
	old := desktopNotify
	t.Cleanup(func() { desktopNotify = old })
	desktopNotify = func(title, message string) error {
		sent = append(sent, message)
		return err
	}
	return &sent
}

func TestGetTrayAppConfigDir(t *testing.T) {
	tempDir := stubConfigDir(t)

	expectedDefault := filepath.Join(tempDir, constants.TrayAppIdentifier)
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if dir != expectedDefault {
		t.Errorf("expected %s, got %s", expectedDefault, dir)
	}

	if err := os.MkdirAll(expectedDefault, 0755); err != nil {
		t.Fatal(err)
	}
	customDir := "/custom/quitline/dir"
	settingsJSON := fmt.Sprintf(`{"settings": {"lockfile_dir": "%s"}}`, customDir)
	if err := os.WriteFile(filepath.Join(expectedDefault, "settings.json"), []byte(settingsJSON), 0644); err != nil {
		t.Fatal(err)
	}

	dir, err = GetTrayAppConfigDir()
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if dir != customDir {
		t.Errorf("expected %s, got %s", customDir, dir)
	}
}

func TestFindAndValidateTrayProcess(t *testing.T) {
	oldFindProcessFunc := findProcessFunc
	defer func() { findProcessFunc = oldFindProcessFunc }()

	lockfilePath := filepath.Join(t.TempDir(), constants.NotifierLockfileName)

	if _, _, err := findAndValidateTrayProcess(lockfilePath); !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("missing lockfile: got %v, want ErrTrayNotRunning", err)
	}

	invalid := []struct {
		name     string
		contents string
	}{
		{"two parts", "8080|12345"},
		{"one part", "invalid"},
		{"empty secret", "8080|12345|"},
		{"empty port", "|12345|testsecret123"},
		{"port out of range", "99999|12345|testsecret123"},
		{"bad pid", "8080|abc|testsecret123"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			if err := os.WriteFile(lockfilePath, []byte(tt.contents), 0644); err != nil {
				t.Fatal(err)
			}
			if _, _, err := findAndValidateTrayProcess(lockfilePath); err == nil {
				t.Errorf("expected error for %q", tt.contents)
			}
		})
	}

	if err := os.WriteFile(lockfilePath, []byte("8080|12345|testsecret123\n"), 0644); err != nil {
		t.Fatal(err)
	}

	findProcessFunc = func(pid int) (ps.Process, error) { return nil, nil }
	if _, _, err := findAndValidateTrayProcess(lockfilePath); !errors.Is(err, ErrTrayNotRunning) {
		t.Errorf("missing process: got %v, want ErrTrayNotRunning", err)
	}

	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "other-app"}, nil
	}
	if _, _, err := findAndValidateTrayProcess(lockfilePath); err == nil {
		t.Error("expected error for wrong executable")
	}

	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "quitline-tray"}, nil
	}
	port, secret, err := findAndValidateTrayProcess(lockfilePath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if port != "8080" || secret != "testsecret123" {
		t.Errorf("got port %s secret %s", port, secret)
	}
}

func newTrayServer(t *testing.T, received *[]WebhookPayload) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("X-Quitline-Secret") != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorized"))
			return
		}
		var payload WebhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if payload.Text == "fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if received != nil {
			*received = append(*received, payload)
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server
}

func serverPort(server *httptest.Server) string {
	parts := strings.Split(server.URL, ":")
	return parts[len(parts)-1]
}

func TestSendNotification(t *testing.T) {
	port := serverPort(newTrayServer(t, nil))
	n := New(true)

	if err := n.sendNotification(port, "test-secret", WebhookPayload{Text: "hello"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := n.sendNotification(port, "", WebhookPayload{Text: "hello"}); err == nil {
		t.Error("expected error for missing secret")
	}
	if err := n.sendNotification(port, "wrong-secret", WebhookPayload{Text: "hello"}); err == nil {
		t.Error("expected error for wrong secret")
	}
	if err := n.sendNotification(port, "test-secret", WebhookPayload{Text: "fail"}); err == nil {
		t.Error("expected error for server failure")
	}
}

func TestSend_PrefersTray(t *testing.T) {
	var received []WebhookPayload
	server := newTrayServer(t, &received)
	desktop := stubDesktop(t, nil)

	dir := stubConfigDir(t)
	trayDir := filepath.Join(dir, constants.TrayAppIdentifier)
	if err := os.MkdirAll(trayDir, 0755); err != nil {
		t.Fatal(err)
	}
	lock := fmt.Sprintf("%s|4242|test-secret", serverPort(server))
	if err := os.WriteFile(filepath.Join(trayDir, constants.NotifierLockfileName), []byte(lock), 0600); err != nil {
		t.Fatal(err)
	}

	oldFind := findProcessFunc
	t.Cleanup(func() { findProcessFunc = oldFind })
	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "quitline-tray"}, nil
	}

	if err := New(true).Send("7 days smoke-free"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(received) != 1 || received[0].Text != "7 days smoke-free" {
		t.Errorf("tray received %+v", received)
	}
	if received[0].DurationMs != constants.NotificationDurationMs {
		t.Errorf("duration = %d", received[0].DurationMs)
	}
	if len(*desktop) != 0 {
		t.Errorf("desktop should not be used when the tray answers, got %v", *desktop)
	}
}

func TestSend_FallsBackToDesktop(t *testing.T) {
	stubConfigDir(t)
	desktop := stubDesktop(t, nil)

	if err := New(true).Send("hello"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(*desktop) != 1 || (*desktop)[0] != "hello" {
		t.Errorf("desktop received %v", *desktop)
	}
}

func TestSend_DesktopError(t *testing.T) {
	stubConfigDir(t)
	stubDesktop(t, errors.New("no notification daemon"))

	if err := New(true).Send("hello"); err == nil {
		t.Error("expected error when every channel fails")
	}
}

func TestSend_Disabled(t *testing.T) {
	stubConfigDir(t)
	desktop := stubDesktop(t, nil)

	n := New(false)
	if n.Enabled() {
		t.Error("Enabled() = true")
	}
	if err := n.Send("hello"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if len(*desktop) != 0 {
		t.Errorf("disabled notifier sent %v", *desktop)
	}
}
