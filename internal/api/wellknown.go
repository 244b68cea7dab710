package api

import "net/http"

// wellKnownManifest is the static JSON manifest for /.well-known/taskhub.json.
const wellKnownManifest = `{
  "name": "TaskHub",
  "description": "Task, project and team management API",
  "version": "0.1.0",
  "api_base": "/api/v1",
  "auth": {
    "type": "bearer",
    "header": "Authorization"
  },
  "endpoints": {
    "tasks": "/api/v1/tasks",
    "projects": "/api/v1/projects",
    "teams": "/api/v1/teams",
    "tags": "/api/v1/tags",
    "users": "/api/v1/users",
    "report": "/api/v1/report"
  },
  "health": "/health"
}`

// WellKnownHandler returns the static TaskHub well-known manifest.
func WellKnownHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(wellKnownManifest))
}
