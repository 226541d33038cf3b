package catalog

import "masquerade/internal/domain"

func paletteEntry(id, name, icon string, cat domain.ComponentCategory) domain.PaletteComponent {
	return domain.PaletteComponent{ID: id, Type: id, Name: name, Icon: icon, Category: cat}
}

func standardComponents() []domain.PaletteComponent {
	s := domain.CategoryStandard
	return []domain.PaletteComponent{
		paletteEntry("accordion", "Accordion", "📂", s),
		paletteEntry("app-launcher", "App Launcher", "⊞", s),
		paletteEntry("assistant", "Assistant", "🤖", s),
		paletteEntry("chatter-feed", "Chatter Feed", "💬", s),
		paletteEntry("einstein-actions", "Einstein Next Best Actions", "🧠", s),
		paletteEntry("flow", "Flow", "⚡", s),
		paletteEntry("key-deals", "Key Deals", "💰", s),
		paletteEntry("list-view", "List View", "📋", s),
		paletteEntry("performance-chart", "Performance Chart", "📊", s),
		paletteEntry("recent-items", "Recent Items", "🕐", s),
		paletteEntry("related-list", "Related List", "📑", s),
		paletteEntry("report-chart", "Report Chart", "📈", s),
		paletteEntry("rich-text", "Rich Text", "📝", s),
		paletteEntry("tabs", "Tabs", "📁", s),
		paletteEntry("todays-events", "Today's Events", "📅", s),
		paletteEntry("todays-tasks", "Today's Tasks", "✅", s),
	}
}

func baseComponents() []domain.PaletteComponent {
	b := domain.CategoryBase
	return []domain.PaletteComponent{
		paletteEntry("button", "Button", "🔘", b),
		paletteEntry("button-group", "Button Group", "⬜", b),
		paletteEntry("card", "Card", "📋", b),
		paletteEntry("data-table", "Data Table", "📊", b),
		paletteEntry("form", "Form", "📝", b),
		paletteEntry("input", "Input", "✏️", b),
		paletteEntry("modal", "Modal", "🪟", b),
		paletteEntry("picklist", "Picklist", "📃", b),
	}
}

func standardObject(name, plural, icon string) domain.SalesforceObject {
	return domain.SalesforceObject{
		Kind: domain.ObjectStandard, Name: name, APIName: name,
		Icon: "standard:" + icon, PluralLabel: plural,
	}
}

func standardObjects() []domain.SalesforceObject {
	return []domain.SalesforceObject{
		standardObject("Account", "Accounts", "account"),
		standardObject("Contact", "Contacts", "contact"),
		standardObject("Lead", "Leads", "lead"),
		standardObject("Opportunity", "Opportunities", "opportunity"),
		standardObject("Case", "Cases", "case"),
		standardObject("Task", "Tasks", "task"),
		standardObject("Event", "Events", "event"),
		standardObject("Campaign", "Campaigns", "campaign"),
	}
}

// Only record pages can be built today; the others are shown disabled.
func pageTypes() []domain.PageTypeOption {
	return []domain.PageTypeOption{
		{Type: domain.PageTypeRecord, Title: "Record Page", Description: "Design a page for viewing and editing individual records", Enabled: true},
		{Type: domain.PageTypeApp, Title: "App Page", Description: "Create a custom page for your Lightning application"},
		{Type: domain.PageTypeHome, Title: "Home Page", Description: "Build a customized home page for your users"},
	}
}
