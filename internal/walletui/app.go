package walletui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/donation-wallet/internal/identity"
	"github.com/donation-wallet/internal/wallet"
	"github.com/donation-wallet/internal/walletclient"
)

const (
	actionToggle  = "toggle"
	actionRefresh = "refresh"
	actionClear   = "clear"
	actionOverlay = "overlay"
	actionLogout  = "logout"
	actionQuit    = "quit"
)

// Authenticator exchanges credentials for a session
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*walletclient.Session, error)
}

// SessionStore is an identity provider that can persist a new session
type SessionStore interface {
	identity.Provider
	Save(token string, u *identity.User) error
}

// Options configures an App
type Options struct {
	OverlayBase string
	Currency    string
	WindowDays  int
}

// App runs the interactive wallet loop on top of a wallet.View
type App struct {
	view     *wallet.View
	auth     Authenticator
	sessions SessionStore
	opts     Options
	out      io.Writer
	logger   *slog.Logger

	notice string
}

func NewApp(view *wallet.View, auth Authenticator, sessions SessionStore, opts Options, out io.Writer, logger *slog.Logger) *App {
	if opts.WindowDays <= 0 {
		opts.WindowDays = wallet.DefaultWindowDays
	}
	return &App{
		view:     view,
		auth:     auth,
		sessions: sessions,
		opts:     opts,
		out:      out,
		logger:   logger,
	}
}

// Run signs in if needed, loads the ledger and serves the menu until the
// owner quits or aborts.
func (a *App) Run(ctx context.Context) error {
	defer a.view.Close()

	if err := a.ensureSession(ctx); err != nil {
		return ignoreAbort(err)
	}
	a.refresh(ctx)

	for {
		a.draw()

		action, err := a.chooseAction(ctx)
		if err != nil {
			return ignoreAbort(err)
		}

		if action == actionToggle {
			id, err := a.chooseRecord(ctx)
			if err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					continue
				}
				return err
			}
			a.toggle(id)
			continue
		}

		quit, err := a.dispatch(ctx, action)
		if err != nil {
			return ignoreAbort(err)
		}
		if quit {
			return nil
		}
	}
}

// dispatch runs a menu action other than the interactive toggle
func (a *App) dispatch(ctx context.Context, action string) (bool, error) {
	switch action {
	case actionRefresh:
		a.refresh(ctx)
	case actionClear:
		if err := a.view.ClearSelection(); err != nil {
			a.notice = "Yükleme sürerken seçim değiştirilemez"
			return false, nil
		}
		a.notice = "Seçim temizlendi"
	case actionOverlay:
		a.openOverlay()
	case actionLogout:
		a.sessions.Unauthorized()
		if err := a.ensureSession(ctx); err != nil {
			return false, err
		}
		a.refresh(ctx)
	case actionQuit:
		return true, nil
	}
	return false, nil
}

func (a *App) toggle(id string) {
	if id == "" {
		return
	}
	if _, err := a.view.Toggle(id); err != nil {
		a.notice = "Yükleme sürerken seçim değiştirilemez"
	}
}

// refresh reloads the ledger. An expired session leads back to the login
// form; any other failure leaves a notice and keeps the old list.
func (a *App) refresh(ctx context.Context) {
	err := a.view.Load(ctx)
	switch {
	case err == nil:
		a.notice = ""
	case errors.Is(err, walletclient.ErrUnauthorized) || errors.Is(err, identity.ErrNoIdentity):
		a.logger.Info("session rejected, signing in again")
		if err := a.ensureSession(ctx); err != nil {
			a.notice = "Oturum açılamadı"
			return
		}
		if err := a.view.Load(ctx); err != nil {
			a.notice = loadNotice(err)
		}
	default:
		a.logger.Warn("failed to load wallet", "error", err)
		a.notice = loadNotice(err)
	}
}

func loadNotice(err error) string {
	switch {
	case errors.Is(err, wallet.ErrBusy):
		return "Bağışlar zaten yükleniyor"
	case errors.Is(err, walletclient.ErrUnreachable):
		return "Sunucuya ulaşılamıyor, daha sonra yenileyin"
	default:
		return "Bağışlar yüklenemedi"
	}
}

func (a *App) openOverlay() {
	link, err := a.view.OverlayURL(a.opts.OverlayBase)
	if err != nil {
		if errors.Is(err, wallet.ErrNothingSelected) {
			a.notice = "Önce yayında gösterilecek bağışları seçin"
			return
		}
		a.logger.Error("failed to build overlay url", "error", err)
		a.notice = "Yayın bağlantısı oluşturulamadı"
		return
	}
	a.logger.Info("overlay link created", "selected", a.view.Selection().Count())
	a.notice = "Yayın bağlantısı: " + link
}

// ensureSession asks for credentials until a token is stored
func (a *App) ensureSession(ctx context.Context) error {
	if _, err := a.sessions.Token(); err == nil {
		return nil
	}

	for {
		var email, password string
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("E-posta").
					Value(&email).
					Validate(func(s string) error {
						if !strings.Contains(s, "@") {
							return fmt.Errorf("geçerli bir e-posta girin")
						}
						return nil
					}),
				huh.NewInput().
					Title("Şifre").
					EchoMode(huh.EchoModePassword).
					Value(&password),
			),
		).RunWithContext(ctx)
		if err != nil {
			return err
		}

		session, err := a.auth.Login(ctx, strings.TrimSpace(email), password)
		if err != nil {
			a.logger.Warn("login failed", "error", err)
			fmt.Fprintln(a.out, Notice("Giriş başarısız: e-posta veya şifre hatalı"))
			continue
		}
		if err := a.sessions.Save(session.Token, session.Account.Identity()); err != nil {
			return fmt.Errorf("failed to store session: %w", err)
		}
		return nil
	}
}

func (a *App) chooseAction(ctx context.Context) (string, error) {
	var action string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Ne yapmak istersiniz?").
				Options(
					huh.NewOption("Bağış seç / bırak", actionToggle),
					huh.NewOption("Yenile", actionRefresh),
					huh.NewOption("Seçimi temizle", actionClear),
					huh.NewOption("Yayında göster", actionOverlay),
					huh.NewOption("Çıkış yap", actionLogout),
					huh.NewOption("Kapat", actionQuit),
				).
				Value(&action),
		),
	).RunWithContext(ctx)
	return action, err
}

func (a *App) chooseRecord(ctx context.Context) (string, error) {
	records := a.view.Records()
	if len(records) == 0 {
		a.notice = "Seçilecek bağış yok"
		return "", nil
	}

	sel := a.view.Selection()
	options := make([]huh.Option[string], 0, len(records))
	for _, r := range records {
		options = append(options, huh.NewOption(RecordLine(r, sel.IsSelected(r.ID), a.opts.Currency), r.ID))
	}

	var id string
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Bağış").
				Options(options...).
				Value(&id),
		),
	).RunWithContext(ctx)
	return id, err
}

// draw clears the screen and prints the header, the list and the notice
func (a *App) draw() {
	fmt.Fprint(a.out, "\033[H\033[2J")
	fmt.Fprintln(a.out, a.screen())
}

func (a *App) screen() string {
	parts := []string{
		Header(a.view.Summary(), a.opts.WindowDays, a.opts.Currency),
		Ledger(a.view.Records(), a.view.Selection(), a.opts.Currency),
	}
	if n := Notice(a.notice); n != "" {
		parts = append(parts, n)
	}
	return strings.Join(parts, "\n\n")
}

func ignoreAbort(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return nil
	}
	return err
}
