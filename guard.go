package auth

// GuardAction is the outcome kind of a guard evaluation
type GuardAction int

const (
	// ActionWait means the session is still loading: render a neutral
	// state and re-evaluate when it settles
	ActionWait GuardAction = iota
	// ActionRender means the destination is reachable
	ActionRender
	// ActionRedirect means navigation must divert to Decision.Target
	ActionRedirect
)

func (a GuardAction) String() string {
	switch a {
	case ActionRender:
		return "render"
	case ActionRedirect:
		return "redirect"
	default:
		return "wait"
	}
}

// Decision is the result of one guard evaluation. When a protected route
// redirects to a login page, Resume carries the originally requested path
// so a successful login can return to it.
type Decision struct {
	Action GuardAction
	Target string
	Resume string
}

// Guard decides, per navigation attempt, whether a destination renders or
// redirects. It is stateless between attempts: every navigation and every
// session change gets a fresh evaluation.
type Guard struct {
	auth   *AuthService
	table  RouteTable
	routes RouteConfig
	logger Logger
}

func NewGuard(auth *AuthService, table RouteTable, routes RouteConfig) *Guard {
	return &Guard{
		auth:   auth,
		table:  table,
		routes: routes,
		logger: defLogger{},
	}
}

func (g *Guard) WithLogger(logger Logger) *Guard {
	if logger != nil {
		g.logger = logger
	}
	return g
}

// Routes returns the configured navigation targets
func (g *Guard) Routes() RouteConfig {
	return g.routes
}

// Auth returns the service whose session this guard consults
func (g *Guard) Auth() *AuthService {
	return g.auth
}

// Evaluate classifies path against the current session state
func (g *Guard) Evaluate(path string) Decision {
	return g.evaluate(path, g.auth.Session().State())
}

// Watch re-runs the decision for path on every session change, so callers
// observe the session reactively instead of polling. It returns an
// unsubscribe function.
func (g *Guard) Watch(path string, fn func(Decision)) func() {
	return g.auth.Watch(func(snap Snapshot) {
		fn(g.evaluate(path, snap))
	})
}

func (g *Guard) evaluate(path string, snap Snapshot) Decision {
	if snap.Loading {
		return Decision{Action: ActionWait}
	}

	access, known := g.table.Classify(path)
	if !known {
		// Unmatched paths fall through to the not-found page.
		return Decision{Action: ActionRender}
	}

	authed := snap.Authenticated()
	var role Role
	if snap.Identity != nil {
		role = snap.Identity.Role
	}

	switch access {
	case AccessEmployerOnly:
		if !authed || role != RoleEmployer {
			return g.redirect(path, g.routes.EmployerLogin)
		}
	case AccessJobseekerOnly:
		if !authed || role != RoleJobseeker {
			return g.redirect(path, g.routes.JobseekerLogin)
		}
	case AccessAuthOnly:
		if authed {
			// Already signed in: the login and registration forms are off
			// limits, land on the role's home instead.
			return Decision{Action: ActionRedirect, Target: g.routes.LandingFor(role)}
		}
	}

	return Decision{Action: ActionRender}
}

func (g *Guard) redirect(requested, target string) Decision {
	g.logger.Debug("route rejected", "path", requested, "redirect", target)
	return Decision{
		Action: ActionRedirect,
		Target: target,
		Resume: requested,
	}
}
