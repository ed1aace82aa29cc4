package auth

// RouteAccess is the static access tier assigned to a navigable path
type RouteAccess int

const (
	// AccessPublic routes render for everyone
	AccessPublic RouteAccess = iota
	// AccessAuthOnly routes (login/registration) are reachable only while
	// unauthenticated
	AccessAuthOnly
	// AccessEmployerOnly routes require an authenticated employer
	AccessEmployerOnly
	// AccessJobseekerOnly routes require an authenticated job seeker
	AccessJobseekerOnly
)

func (a RouteAccess) String() string {
	switch a {
	case AccessAuthOnly:
		return "auth-only"
	case AccessEmployerOnly:
		return "employer-only"
	case AccessJobseekerOnly:
		return "jobseeker-only"
	default:
		return "public"
	}
}

// RouteTable maps paths to access tiers. It is configuration: built once
// at startup and never mutated afterwards.
type RouteTable map[string]RouteAccess

// Classify looks up the access tier for path. An unmatched path is the
// caller's responsibility (it falls through to the not-found page).
func (t RouteTable) Classify(path string) (RouteAccess, bool) {
	access, ok := t[path]
	return access, ok
}

// RouteConfig names the navigation targets the guard redirects to. One
// canonical login and landing route per role, applied consistently.
type RouteConfig struct {
	Home             string
	EmployerLogin    string
	JobseekerLogin   string
	EmployerLanding  string
	JobseekerLanding string
}

func DefaultRouteConfig() RouteConfig {
	return RouteConfig{
		Home:             "/",
		EmployerLogin:    "/employer/login",
		JobseekerLogin:   "/jobseeker/login",
		EmployerLanding:  "/employer/dashboard",
		JobseekerLanding: "/jobseeker/search-jobs",
	}
}

// LoginFor returns the role's login route
func (c RouteConfig) LoginFor(role Role) string {
	if role == RoleEmployer {
		return c.EmployerLogin
	}
	return c.JobseekerLogin
}

// LandingFor returns the role's default landing route; roles outside the
// two known ones land on the generic home route.
func (c RouteConfig) LandingFor(role Role) string {
	switch role {
	case RoleEmployer:
		return c.EmployerLanding
	case RoleJobseeker:
		return c.JobseekerLanding
	default:
		return c.Home
	}
}

// DefaultRouteTable reproduces the portal's navigable paths
func DefaultRouteTable() RouteTable {
	table := RouteTable{}

	public := []string{
		"/", "/layout2", "/layout3",
		"/aboutus", "/services", "/team", "/pricing", "/privacyandpolicy", "/faqs",
		"/joblist", "/joblist2", "/jobgrid", "/jobgrid2", "/jobdetails", "/jobscategories",
		"/candidatelist", "/candidategrid", "/candidatedetails", "/companylist", "/companydetails",
		"/blog", "/bloggrid", "/blogmodern", "/blogmasonary", "/blogdetails", "/blogauther",
		"/contact",
	}

	employer := []string{
		"/employer/dashboard", "/employer/post-job", "/employer/manage-jobs",
		"/employer/applications", "/employer/profile", "/employer/bookmarkjobpost",
		"/employer/managejobs",
	}

	jobseeker := []string{
		"/jobseeker/dashboard", "/jobseeker/search-jobs", "/jobseeker/applied-jobs",
		"/jobseeker/saved-jobs", "/jobseeker/profile", "/jobseeker/bookmarkjobs",
		"/myprofile",
	}

	authOnly := []string{
		"/employer/login", "/employer/register",
		"/jobseeker/login", "/jobseeker/register",
		"/signin", "/signup", "/resetpassword",
	}

	for _, path := range public {
		table[path] = AccessPublic
	}
	for _, path := range employer {
		table[path] = AccessEmployerOnly
	}
	for _, path := range jobseeker {
		table[path] = AccessJobseekerOnly
	}
	for _, path := range authOnly {
		table[path] = AccessAuthOnly
	}

	return table
}
