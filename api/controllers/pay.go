package controllers

import (
	"net/http"
)

// PayRedirect bounces scanned payment links to the static payer page while
// keeping the query string intact. Old QR images printed before the static
// page moved keep working through this route.
func PayRedirect(w http.ResponseWriter, r *http.Request) {
	target := "/payer.html"
	if raw := r.URL.RawQuery; raw != "" {
		target += "?" + raw
	}
	http.Redirect(w, r, target, http.StatusFound)
}
