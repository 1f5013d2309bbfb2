package screens

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/camaron/internal/router"
	"github.com/jask/camaron/internal/session"
	"github.com/jask/camaron/internal/tui/core"
)

const (
	fieldConfirm = "confirmPassword"
	fieldTerms   = "terms"
)

type Register struct {
	env      *core.Env
	form     *form
	provider bool
	terms    bool
}

func NewRegister(env *core.Env) *Register {
	return &Register{
		env: env,
		form: newForm(
			newField(session.FieldName, "Nombre completo", "Ana López", false),
			newField(session.FieldEmail, "Email", "tu@email.com", false),
			newField(session.FieldPhone, "Teléfono", "55 1234 5678", false),
			newField(session.FieldPassword, "Contraseña", "mínimo 6 caracteres", true),
			newField(fieldConfirm, "Confirmar contraseña", "repite tu contraseña", true),
		),
	}
}

func (s *Register) Title() string   { return "Crear cuenta" }
func (s *Register) Scope() string   { return core.ScopeRegister }
func (s *Register) Capturing() bool { return true }

// Errors returns the per-field messages from the last submit.
func (s *Register) Errors() map[string]string { return s.form.errs }

func (s *Register) registration() session.Registration {
	return session.Registration{
		Name:              s.form.value(session.FieldName),
		Email:             s.form.value(session.FieldEmail),
		Phone:             s.form.value(session.FieldPhone),
		Password:          s.form.value(session.FieldPassword),
		IsServiceProvider: s.provider,
	}
}

// validate runs every local check and records per-field messages.
func (s *Register) validate() bool {
	errs := map[string]string{}
	for _, e := range session.ValidateRegistration(s.registration().Normalize()) {
		errs[e.Field] = e.Message
	}
	if s.form.value(session.FieldPassword) != s.form.value(fieldConfirm) {
		errs[fieldConfirm] = "Las contraseñas no coinciden"
	}
	if !s.terms {
		errs[fieldTerms] = "Debes aceptar los términos y condiciones"
	}
	s.form.errs = errs
	return len(errs) == 0
}

func (s *Register) Update(msg tea.Msg) (core.Screen, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case core.AuthResultMsg:
		var se *session.Error
		if msg.Op == "register" && errors.As(msg.Err, &se) && se.Kind == session.KindValidation {
			s.form.errs[se.Field] = se.Message
		}
		return s, nil, false
	case tea.KeyMsg:
		switch {
		case s.env.Is(msg, "submit", s.Scope()):
			if s.env.Store.Snapshot().Loading() || !s.validate() {
				return s, nil, false
			}
			return s, s.env.RegisterCmd(s.registration()), false
		case s.env.Is(msg, "field-next", s.Scope()):
			return s, s.form.next(), false
		case s.env.Is(msg, "field-prev", s.Scope()):
			return s, s.form.prev(), false
		case s.env.Is(msg, "to-signin", s.Scope()):
			return s, core.MsgCmd(core.ShowAuthScreenMsg{Screen: router.SignIn}), false
		case s.env.Is(msg, "toggle-provider", s.Scope()):
			s.provider = !s.provider
			return s, nil, false
		case s.env.Is(msg, "toggle-terms", s.Scope()):
			s.terms = !s.terms
			delete(s.form.errs, fieldTerms)
			return s, nil, false
		case s.env.Is(msg, "bypass", s.Scope()) && s.env.Store.BypassAvailable():
			return s, s.env.BypassCmd(), false
		}
		cmd, changed := s.form.update(msg)
		if changed && s.env.Store.Snapshot().Err != nil {
			s.env.Store.ClearError()
		}
		return s, cmd, false
	}
	return s, nil, false
}

func (s *Register) View(width, height int) string {
	snap := s.env.Store.Snapshot()
	parts := []string{
		core.TitleStyle.Render("Crear cuenta"),
		core.MutedStyle.Render("Únete a la comunidad"),
		"",
		s.form.view(),
		"",
		checkbox("Soy proveedor de servicios", s.provider, "ctrl+t"),
		checkbox("Acepto los términos y condiciones", s.terms, "ctrl+a"),
	}
	if msg := s.form.errs[fieldTerms]; msg != "" {
		parts = append(parts, core.ErrorStyle.Render("  "+msg))
	}
	parts = append(parts, "")
	switch {
	case snap.Loading():
		parts = append(parts, core.WarnStyle.Render("Creando cuenta…"))
	case snap.Err != nil:
		parts = append(parts, core.ErrorStyle.Render("Error de registro: "+snap.Err.Message))
	default:
		parts = append(parts, core.MutedStyle.Render("enter para registrarte · esc para volver"))
	}
	return card(width, height, lipgloss.JoinVertical(lipgloss.Left, parts...))
}
