package handlers

import (
	"html/template"
	"log"
	"net/http"

	"silentaid/middleware"
	"silentaid/store"
)

// RootHandler serves a plain banner so a quick curl confirms the backend is
// up, with a pointer to the dashboard.
func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(`<h2>SilentAid Backend Running</h2>
<p>Use <a href="/dashboard">/dashboard</a> to view received SOS alerts.</p>
`))
}

var dashboardTemplate = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html>
<head>
  <title>SilentAid - SOS Dashboard</title>
  <meta charset="UTF-8" />
</head>
<body style="background:#0f172a; margin:0; padding:20px; font-family:system-ui, sans-serif; color:#e5e7eb;">
  <h1 style="margin-top:0;">SilentAid SOS Dashboard</h1>
  <p style="color:#9ca3af; font-size:14px;">Each triggered SOS appears here as a card.</p>
  <button onclick="location.reload()" style="padding:6px 12px; border-radius:999px; border:none; background:#22c55e; color:#022c22; font-weight:600; cursor:pointer; margin-bottom:10px;">Refresh</button>
  <div>
  {{if not .Alerts}}<p>No alerts yet.</p>{{end}}
  {{range .Alerts}}
    <div style="border:1px solid #e5e7eb; border-radius:10px; padding:10px 14px; margin-bottom:10px; background:#020617;">
      <div style="font-size:13px; color:#9ca3af;"><strong>ID:</strong> {{.id}} &bull; <strong>Time:</strong> {{.createdAt}}</div>
      <div style="margin-top:4px; font-size:14px;"><strong>Type:</strong> {{.emergencyType}} &bull; <strong>Status:</strong> {{.status}}</div>
      <div style="margin-top:4px; font-size:13px;"><strong>User:</strong> {{.userName}} ({{.userId}}) &bull; <strong>Phone:</strong> {{.phone}}</div>
      <div style="margin-top:4px; font-size:13px;">
        <strong>Location:</strong>
        {{if .lat}}Lat: {{.lat}}, Lng: {{.lng}}{{else}}Not provided{{end}}
      </div>
      {{if .extraMessage}}<div style="margin-top:4px; font-size:13px;"><strong>Message:</strong> {{.extraMessage}}</div>{{end}}
    </div>
  {{end}}
  </div>
</body>
</html>
`))

// DashboardHandler renders a read-only view of the most recent alerts.
func (h *APIHandler) DashboardHandler(w http.ResponseWriter, r *http.Request) error {
	alerts, err := h.store.List(r.Context(), alertsCollection, store.Query{Limit: alertListLimit})
	if err != nil {
		log.Printf("Error listing alerts for dashboard: %v", err)
		return middleware.NewAppError(http.StatusInternalServerError, "Internal Server Error", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTemplate.Execute(w, map[string]interface{}{"Alerts": alerts}); err != nil {
		return middleware.NewAppError(http.StatusInternalServerError, "Internal Server Error", err)
	}
	return nil
}
