package dashboard

import "github.com/honeycarbs/alumni-jobs/internal/domain/access"

// Panel names a dashboard section
type Panel string

const (
	PanelModeration     Panel = "moderation"
	PanelReceived       Panel = "received_applications"
	PanelAnalytics      Panel = "analytics"
	PanelPostings       Panel = "my_postings"
	PanelMyApplications Panel = "my_applications"
	PanelSaved          Panel = "saved_jobs"
	PanelAccessDenied   Panel = "access_denied"
)

// View is the role-specific dashboard layout
type View interface {
	Role() access.Role
	Panels() []Panel
}

// ForRole picks the dashboard for role; unknown roles get an access-denied view
func ForRole(role access.Role) View {
	switch role {
	case access.SuperAdmin, access.CollegeAdmin:
		return adminView{role: role}
	case access.HOD, access.Staff:
		return reviewerView{role: role}
	case access.Alumni:
		return alumniView{}
	default:
		return deniedView{}
	}
}

type adminView struct{ role access.Role }

func (v adminView) Role() access.Role { return v.role }

func (adminView) Panels() []Panel {
	return []Panel{PanelModeration, PanelReceived, PanelAnalytics}
}

type reviewerView struct{ role access.Role }

func (v reviewerView) Role() access.Role { return v.role }

func (reviewerView) Panels() []Panel {
	return []Panel{PanelReceived, PanelPostings}
}

type alumniView struct{}

func (alumniView) Role() access.Role { return access.Alumni }

func (alumniView) Panels() []Panel {
	return []Panel{PanelMyApplications, PanelSaved, PanelReceived, PanelPostings}
}

type deniedView struct{}

func (deniedView) Role() access.Role { return access.UnknownRole }

func (deniedView) Panels() []Panel {
	return []Panel{PanelAccessDenied}
}
