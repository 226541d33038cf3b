package catalog

import "masquerade/internal/domain"

func row(n int) *domain.Track { return &domain.Track{Start: n, End: n + 1} }

func cols(start, end int) domain.Track { return domain.Track{Start: start, End: end} }

const (
	phHeader  = "Drop components here for the header area"
	phMain    = "Drop components here for the main content"
	phSidebar = "Drop components here for the sidebar"
)

func headerRegion() domain.RegionDefinition {
	return domain.RegionDefinition{
		ID: "header", Name: "Header", Type: domain.RegionHeader,
		Column: cols(1, 13), Row: row(1), MinHeight: 100,
		EmptyPlaceholder: phHeader,
	}
}

// wizardLayouts is the fixed table offered on the wizard's layout step.
func wizardLayouts() []domain.LayoutDefinition {
	return []domain.LayoutDefinition{
		{
			ID:          "header-one-region",
			Name:        "Header and One Region",
			Description: "A header area followed by a single content region",
			GridColumns: 12,
			Regions: []domain.RegionDefinition{
				headerRegion(),
				{ID: "main", Name: "Main Content", Type: domain.RegionMain, Column: cols(1, 13), Row: row(2), MinHeight: 400, EmptyPlaceholder: phMain},
			},
		},
		{
			ID:          "header-right-sidebar",
			Name:        "Header and Right Sidebar",
			Description: "Header with main content on left and sidebar on right",
			GridColumns: 12,
			Regions: []domain.RegionDefinition{
				headerRegion(),
				{ID: "main", Name: "Main Content", Type: domain.RegionMain, Column: cols(1, 10), Row: row(2), MinHeight: 400, EmptyPlaceholder: phMain},
				{ID: "sidebar", Name: "Sidebar", Type: domain.RegionSidebar, Column: cols(10, 13), Row: row(2), MinHeight: 400, EmptyPlaceholder: phSidebar},
			},
		},
		{
			ID:          "header-left-sidebar",
			Name:        "Header and Left Sidebar",
			Description: "Header with sidebar on left and main content on right",
			GridColumns: 12,
			Regions: []domain.RegionDefinition{
				headerRegion(),
				{ID: "sidebar", Name: "Sidebar", Type: domain.RegionSidebar, Column: cols(1, 4), Row: row(2), MinHeight: 400, EmptyPlaceholder: phSidebar},
				{ID: "main", Name: "Main Content", Type: domain.RegionMain, Column: cols(4, 13), Row: row(2), MinHeight: 400, EmptyPlaceholder: phMain},
			},
		},
		{
			ID:          "header-two-equal",
			Name:        "Header and Two Equal Regions",
			Description: "Header with two equal-width content regions below",
			GridColumns: 12,
			Regions: []domain.RegionDefinition{
				headerRegion(),
				{ID: "main", Name: "Left Content", Type: domain.RegionMain, Column: cols(1, 7), Row: row(2), MinHeight: 400, EmptyPlaceholder: "Drop components here for the left content"},
				{ID: "sidebar", Name: "Right Content", Type: domain.RegionSidebar, Column: cols(7, 13), Row: row(2), MinHeight: 400, EmptyPlaceholder: "Drop components here for the right content"},
			},
		},
		{
			ID:          "one-region",
			Name:        "One Region",
			Description: "A single full-width content region",
			GridColumns: 12,
			Regions: []domain.RegionDefinition{
				{ID: "main", Name: "Main Content", Type: domain.RegionMain, Column: cols(1, 13), Row: row(1), MinHeight: 500, EmptyPlaceholder: "Drop components here"},
			},
		},
	}
}

const phDrag = "Drag components here"

// templateLayouts back the built-in page templates. Unlike the wizard table
// they carry component caps and collapsible sidebars.
func templateLayouts() []domain.LayoutDefinition {
	sidebar := func(start, end int, r *domain.Track) domain.RegionDefinition {
		return domain.RegionDefinition{
			ID: "sidebar", Name: "Sidebar", Type: domain.RegionSidebar, Column: cols(start, end), Row: r,
			MinHeight: 400, MaxComponents: domain.Unbounded, Collapsible: true, EmptyPlaceholder: "Sidebar components",
		}
	}
	mainRegion := func(start, end int, r *domain.Track) domain.RegionDefinition {
		return domain.RegionDefinition{
			ID: "main", Name: "Main Content", Type: domain.RegionMain, Column: cols(start, end), Row: r,
			MinHeight: 400, MaxComponents: domain.Unbounded, EmptyPlaceholder: phDrag,
		}
	}
	column := func(id, name string, start, end int, placeholder string) domain.RegionDefinition {
		return domain.RegionDefinition{
			ID: id, Name: name, Type: domain.RegionMain, Column: cols(start, end),
			MinHeight: 400, MaxComponents: domain.Unbounded, EmptyPlaceholder: placeholder,
		}
	}

	return []domain.LayoutDefinition{
		{
			ID: "single-column", Name: "Single Column", Description: "Full-width single column layout", GridColumns: 12,
			Regions: []domain.RegionDefinition{{
				ID: "main", Name: "Main Content", Type: domain.RegionFull, Column: cols(1, 13),
				MinHeight: 400, MaxComponents: domain.Unbounded, EmptyPlaceholder: phDrag,
			}},
		},
		{
			ID: "two-column-equal", Name: "Two Column (Equal)", Description: "Two equal-width columns", GridColumns: 12,
			Regions: []domain.RegionDefinition{
				column("left", "Left Column", 1, 7, phDrag),
				column("right", "Right Column", 7, 13, phDrag),
			},
		},
		{
			ID: "two-column-left-sidebar", Name: "Sidebar Left", Description: "Narrow left sidebar with wide main content", GridColumns: 12,
			Regions: []domain.RegionDefinition{sidebar(1, 4, nil), mainRegion(4, 13, nil)},
		},
		{
			ID: "two-column-right-sidebar", Name: "Sidebar Right", Description: "Wide main content with narrow right sidebar", GridColumns: 12,
			Regions: []domain.RegionDefinition{mainRegion(1, 10, nil), sidebar(10, 13, nil)},
		},
		{
			ID: "header-two-column", Name: "Header + Two Column", Description: "Full-width header with two columns below", GridColumns: 12,
			Regions: []domain.RegionDefinition{
				{
					ID: "header", Name: "Header", Type: domain.RegionHeader, Column: cols(1, 13), Row: row(1),
					MinHeight: 100, MaxComponents: 2, EmptyPlaceholder: "Header components (Highlights Panel, Path)",
				},
				mainRegion(1, 10, row(2)),
				sidebar(10, 13, row(2)),
			},
		},
		{
			ID: "three-column", Name: "Three Column", Description: "Three equal-width columns", GridColumns: 12,
			Regions: []domain.RegionDefinition{
				column("left", "Left Column", 1, 5, "Left column"),
				column("center", "Center Column", 5, 9, "Center column"),
				column("right", "Right Column", 9, 13, "Right column"),
			},
		},
	}
}
