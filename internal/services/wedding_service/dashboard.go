package services

import (
	"context"

	"everafter/internal/domain/models"
	"everafter/internal/transport/http/dto"

	"github.com/google/uuid"
)

// DefaultVisible is how many weddings a partition shows before "view more".
const DefaultVisible = 3

type Tab string

const (
	TabUpcoming  Tab = "upcoming"
	TabCompleted Tab = "completed"
)

// Dashboard owns one user's wedding list for display: wholesale reload
// after every mutation, partition by status, reveal paging, and the
// UI-only row expansion flags. It never talks to the store directly.
type Dashboard struct {
	svc      *WeddingService
	ownerID  uuid.UUID
	weddings []models.Wedding
	tab      Tab
	showAll  bool
	expanded map[uuid.UUID]bool
}

func NewDashboard(svc *WeddingService, ownerID uuid.UUID) *Dashboard {
	return &Dashboard{
		svc:      svc,
		ownerID:  ownerID,
		tab:      TabUpcoming,
		expanded: make(map[uuid.UUID]bool),
	}
}

// Load fetches the full list and replaces the previous one wholesale.
// Zero rows is the empty state, not an error.
func (d *Dashboard) Load(ctx context.Context) error {
	weddings, err := d.svc.ListWeddings(ctx, d.ownerID)
	if err != nil {
		return err
	}

	d.weddings = weddings
	return nil
}

// SwitchTab selects a partition and resets the reveal expansion and any
// row-level detail flags.
func (d *Dashboard) SwitchTab(tab Tab) {
	if tab != TabUpcoming && tab != TabCompleted {
		tab = TabUpcoming
	}
	if tab == d.tab {
		return
	}

	d.tab = tab
	d.showAll = false
	d.expanded = make(map[uuid.UUID]bool)
}

func (d *Dashboard) Tab() Tab {
	return d.tab
}

func (d *Dashboard) ShowAll() {
	d.showAll = true
}

// ShowLess collapses back to the first entries and clears row expansion.
func (d *Dashboard) ShowLess() {
	d.showAll = false
	d.expanded = make(map[uuid.UUID]bool)
}

func (d *Dashboard) ToggleExpanded(id uuid.UUID) {
	d.expanded[id] = !d.expanded[id]
}

func (d *Dashboard) IsExpanded(id uuid.UUID) bool {
	return d.expanded[id]
}

// Partition returns the active tab's weddings in the loaded (date
// ascending) order.
func (d *Dashboard) Partition() []models.Wedding {
	return partition(d.weddings, d.tab)
}

// Visible applies reveal paging to the active partition: the first
// DefaultVisible entries unless the user asked for everything.
func (d *Dashboard) Visible() []models.Wedding {
	part := d.Partition()
	if d.showAll || len(part) <= DefaultVisible {
		return part
	}
	return part[:DefaultVisible]
}

// Create persists a new wedding for the owner and reloads the list.
func (d *Dashboard) Create(ctx context.Context, req dto.WeddingFormRequest) (*models.Wedding, error) {
	wedding, err := d.svc.CreateWedding(ctx, d.ownerID, req)
	if err != nil {
		return nil, err
	}

	return wedding, d.Load(ctx)
}

// Edit updates an existing wedding and reloads the list.
func (d *Dashboard) Edit(ctx context.Context, weddingID uuid.UUID, req dto.WeddingFormRequest) (*models.Wedding, error) {
	wedding, err := d.svc.UpdateWedding(ctx, weddingID, d.ownerID, req)
	if err != nil {
		return nil, err
	}

	return wedding, d.Load(ctx)
}

// Delete removes a confirmed wedding and reloads. A failed delete skips
// the reload so the record stays visible.
func (d *Dashboard) Delete(ctx context.Context, weddingID uuid.UUID, confirmed bool) error {
	if err := d.svc.DeleteWedding(ctx, weddingID, d.ownerID, confirmed); err != nil {
		return err
	}

	return d.Load(ctx)
}

// View renders the current state; countdowns and default images are
// computed per row at render time.
func (d *Dashboard) View() dto.DashboardResponse {
	part := d.Partition()
	visible := d.Visible()

	now := nowFunc()
	weddings := make([]dto.WeddingResponse, 0, len(visible))
	for i, w := range visible {
		weddings = append(weddings, MapWedding(w, i, now))
	}

	return dto.DashboardResponse{
		Tab:         string(d.tab),
		TotalCount:  len(part),
		HiddenCount: len(part) - len(visible),
		ShowingAll:  d.showAll,
		Weddings:    weddings,
	}
}

func partition(weddings []models.Wedding, tab Tab) []models.Wedding {
	out := make([]models.Wedding, 0, len(weddings))
	for _, w := range weddings {
		completed := w.Status == models.StatusCompleted
		if (tab == TabCompleted) == completed {
			out = append(out, w)
		}
	}
	return out
}
