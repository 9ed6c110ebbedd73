package dashboard

import (
	"html/template"
	"net/http"

	"pantry-monitor/utils"
)

var pageTemplate = template.Must(template.New("page").Parse(pageHTML))

type pageData struct {
	RefreshSec     int
	SpinClass      string
	Statistics     template.HTML
	Inventory      template.HTML
	InventoryLabel string
	Scans          template.HTML
	ScansLabel     string
	Image          template.HTML
}

// PageServer serves the rendered dashboard page from the refresher's
// panel state.
type PageServer struct {
	refresher  *Refresher
	logger     *utils.Logger
	refreshSec int
}

// NewPageServer creates a PageServer over the given refresher.
func NewPageServer(refresher *Refresher, logger *utils.Logger, refreshSec int) *PageServer {
	return &PageServer{refresher: refresher, logger: logger, refreshSec: refreshSec}
}

// Routes returns the page server's HTTP handler.
func (s *PageServer) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.servePage)
	mux.HandleFunc("/refresh", s.handleRefresh)
	return mux
}

func (s *PageServer) servePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	stats, inventory, scans, image := s.refresher.Views()

	spin := ""
	if s.refresher.Spinning() {
		spin = "spinning"
	}

	data := pageData{
		RefreshSec:     s.refreshSec,
		SpinClass:      spin,
		Statistics:     template.HTML(stats.HTML),
		Inventory:      template.HTML(inventory.HTML),
		InventoryLabel: inventory.Label,
		Scans:          template.HTML(scans.HTML),
		ScansLabel:     scans.Label,
		Image:          template.HTML(image.HTML),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		s.logger.Error("[dashboard] Page render failed: %v", err)
	}
}

func (s *PageServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.refresher.RefreshNow(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
