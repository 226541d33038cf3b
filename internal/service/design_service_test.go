package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"masquerade/internal/design"
	"masquerade/internal/domain"
	"masquerade/internal/service"
	"masquerade/internal/storage"
)

func newDesignService(t *testing.T, e *env) *service.DesignService {
	t.Helper()
	svc, err := service.NewDesignService(service.DesignServiceDeps{
		Catalog:  e.catalog,
		Designs:  e.designs,
		History:  e.history,
		Settings: e.settings,
		Emitter:  e.emitter,
	})
	if err != nil {
		t.Fatalf("new design service: %v", err)
	}
	return svc
}

// completeWizard walks the wizard to an Account record page with a sidebar.
func completeWizard(t *testing.T, e *env, svc *service.DesignService) design.State {
	t.Helper()
	ctx := context.Background()
	account, ok := e.catalog.StandardObject("Account")
	if !ok {
		t.Fatal("Account object missing from catalog")
	}
	layout, ok := e.catalog.LookupLayout("header-right-sidebar")
	if !ok {
		t.Fatal("layout missing from catalog")
	}

	svc.Dispatch(ctx, design.WizardOpen{})
	svc.Dispatch(ctx, design.WizardSelectPageType{PageType: domain.PageTypeRecord})
	svc.Dispatch(ctx, design.WizardSelectObject{Object: account})
	svc.Dispatch(ctx, design.WizardSelectLayout{Layout: layout})
	st := svc.Dispatch(ctx, design.WizardComplete{})
	if st.Design == nil {
		t.Fatal("wizard did not create a design")
	}
	return st
}

func TestDesignService_FirstVisitOpensWizard(t *testing.T) {
	e := newEnv(t)

	svc := newDesignService(t, e)
	if !svc.State().Wizard.Open {
		t.Fatal("wizard should open on first visit")
	}
	if err := svc.MarkVisited(); err != nil {
		t.Fatal(err)
	}

	again := newDesignService(t, e)
	if again.State().Wizard.Open {
		t.Error("wizard should stay closed once visited")
	}
}

func TestDesignService_DispatchEmitsState(t *testing.T) {
	e := newEnv(t)
	svc := newDesignService(t, e)

	st := completeWizard(t, e, svc)
	if st.Design.Name != "Account Page" {
		t.Errorf("name = %q", st.Design.Name)
	}
	if got := len(e.emitter.Named(service.EventDesignState)); got != 5 {
		t.Errorf("state events = %d, want 5", got)
	}

	st, err := svc.DispatchJSON(context.Background(), []byte(`{"type":"RENAME_DESIGN","name":"Key Accounts"}`))
	if err != nil {
		t.Fatal(err)
	}
	if st.Design.Name != "Key Accounts" {
		t.Errorf("rename via JSON: %q", st.Design.Name)
	}

	if _, err := svc.DispatchJSON(context.Background(), []byte(`{"type":"EXPLODE"}`)); err == nil {
		t.Error("unknown action type should fail to decode")
	}
}

func TestDesignService_DropComponent(t *testing.T) {
	e := newEnv(t)
	svc := newDesignService(t, e)
	ctx := context.Background()

	if _, err := svc.DropComponent(ctx, "rich-text", "main", nil); !errors.Is(err, domain.ErrNoDesign) {
		t.Fatalf("drop without design: err = %v", err)
	}

	completeWizard(t, e, svc)
	svc.Dispatch(ctx, design.DragStart{Component: domain.PaletteComponent{ID: "related-list"}})

	st, err := svc.DropComponent(ctx, "related-list", "main", nil)
	if err != nil {
		t.Fatal(err)
	}
	mainEls := st.Design.Regions["main"]
	if len(mainEls) != 1 {
		t.Fatalf("main has %d elements", len(mainEls))
	}
	if mainEls[0].Properties["objectName"] != "Contact" {
		t.Errorf("schema defaults not applied: %v", mainEls[0].Properties)
	}
	if mainEls[0].ID == "" {
		t.Error("element id not generated")
	}
	if st.Drag.Dragging {
		t.Error("drop should end the drag")
	}

	if _, err := svc.DropComponent(ctx, "no-such-thing", "main", nil); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown component: err = %v", err)
	}
	if _, err := svc.DropComponent(ctx, "rich-text", "footer", nil); err == nil {
		t.Error("drop into unknown region should fail")
	}
}

func TestDesignService_UpdateProperties(t *testing.T) {
	e := newEnv(t)
	svc := newDesignService(t, e)
	ctx := context.Background()
	completeWizard(t, e, svc)

	st, err := svc.DropComponent(ctx, "related-list", "main", nil)
	if err != nil {
		t.Fatal(err)
	}
	id := st.Design.Regions["main"][0].ID

	if _, err := svc.UpdateProperties(ctx, id, domain.Properties{"rowCount": 50.0}); err == nil {
		t.Error("rowCount above maximum should be rejected")
	}
	st, err = svc.UpdateProperties(ctx, id, domain.Properties{"rowCount": 8.0})
	if err != nil {
		t.Fatal(err)
	}
	props := st.Design.Regions["main"][0].Properties
	if props["rowCount"] != 8.0 || props["objectName"] != "Contact" {
		t.Errorf("merge result = %v", props)
	}

	if _, err := svc.UpdateProperties(ctx, "ghost", domain.Properties{}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown element: err = %v", err)
	}
}

func TestDesignService_SaveOpenDelete(t *testing.T) {
	e := newEnv(t)
	svc := newDesignService(t, e)
	ctx := context.Background()

	if _, err := svc.Save(ctx); !errors.Is(err, domain.ErrNoDesign) {
		t.Fatalf("save without design: %v", err)
	}

	st := completeWizard(t, e, svc)
	if _, err := svc.DropComponent(ctx, "rich-text", "sidebar", nil); err != nil {
		t.Fatal(err)
	}
	saved, err := svc.Save(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if saved.ID != st.Design.ID || saved.CreatedAt == 0 {
		t.Errorf("saved = %+v", saved)
	}
	if len(e.emitter.Named(service.EventDesignSaved)) != 1 {
		t.Error("design:saved not emitted")
	}

	svc.Dispatch(ctx, design.ClearDesign{})
	st, err = svc.Open(ctx, saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	if st.Design == nil || len(st.Design.Regions["sidebar"]) != 1 {
		t.Fatalf("reopened design lost its element: %+v", st.Design)
	}

	list, _ := svc.List()
	if len(list) != 1 {
		t.Fatalf("list = %d", len(list))
	}

	if err := svc.Delete(ctx, saved.ID); err != nil {
		t.Fatal(err)
	}
	if svc.State().Design != nil {
		t.Error("deleting the open design should clear the session")
	}
	if _, err := svc.Open(ctx, saved.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("open deleted: err = %v", err)
	}
}

func TestDesignService_CreateFromTemplate(t *testing.T) {
	e := newEnv(t)
	svc := newDesignService(t, e)
	ctx := context.Background()

	st, err := svc.CreateFromTemplate(ctx, "sales-account-record")
	if err != nil {
		t.Fatal(err)
	}
	if st.Design.ElementCount() != 6 {
		t.Errorf("element count = %d, want 6", st.Design.ElementCount())
	}
	if st.Design.TemplateID != "sales-account-record" {
		t.Errorf("templateId = %q", st.Design.TemplateID)
	}

	if _, err := svc.CreateFromTemplate(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown template: err = %v", err)
	}
}

func TestDesignService_CheckpointRestore(t *testing.T) {
	e := newEnv(t)
	svc := newDesignService(t, e)
	ctx := context.Background()

	st := completeWizard(t, e, svc)
	svc.DropComponent(ctx, "rich-text", "main", nil)
	first, err := svc.Checkpoint("one element")
	if err != nil {
		t.Fatal(err)
	}

	time.Sleep(2 * time.Millisecond)
	svc.DropComponent(ctx, "related-list", "main", nil)
	second, err := svc.Checkpoint("two elements")
	if err != nil {
		t.Fatal(err)
	}
	if second.ParentID == nil || *second.ParentID != first.ID {
		t.Errorf("second checkpoint parent = %v, want %s", second.ParentID, first.ID)
	}

	restored, err := svc.Restore(ctx, first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if restored.Design.ElementCount() != 1 {
		t.Errorf("restored element count = %d", restored.Design.ElementCount())
	}

	tree, err := svc.History(st.Design.ID)
	if err != nil {
		t.Fatal(err)
	}
	if tree.CurrentID != first.ID || len(tree.Nodes) != 2 {
		t.Errorf("tree = %+v", tree)
	}

	if _, err := svc.Restore(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("restore missing: %v", err)
	}
}

func TestDesignService_UserTemplates(t *testing.T) {
	e := newEnv(t)
	svc, err := service.NewDesignService(service.DesignServiceDeps{
		Catalog:   e.catalog,
		Designs:   e.designs,
		Templates: storage.NewTemplateStore(e.db),
		History:   e.history,
		Settings:  e.settings,
		Emitter:   e.emitter,
	})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := svc.SaveAsTemplate("x", "sales"); !errors.Is(err, domain.ErrNoDesign) {
		t.Fatalf("save without design: %v", err)
	}

	st := completeWizard(t, e, svc)
	svc.DropComponent(ctx, "rich-text", "sidebar", nil)
	tpl, err := svc.SaveAsTemplate("", "sales")
	if err != nil {
		t.Fatal(err)
	}
	if tpl.Name != "Account Page" {
		t.Errorf("template name = %q, want the design name", tpl.Name)
	}

	list, err := svc.UserTemplates()
	if err != nil || len(list) != 1 {
		t.Fatalf("UserTemplates = %v, %v", list, err)
	}

	opened, err := svc.CreateFromUserTemplate(ctx, tpl.ID)
	if err != nil {
		t.Fatal(err)
	}
	if opened.Design.ID == st.Design.ID {
		t.Error("a design opened from a template gets a fresh id")
	}
	if opened.Design.ElementCount() != 1 || opened.Design.Metadata.Version != 1 {
		t.Errorf("opened design = %+v", opened.Design)
	}

	if _, err := svc.CreateFromUserTemplate(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing template: %v", err)
	}
	if err := svc.DeleteUserTemplate(tpl.ID); err != nil {
		t.Fatal(err)
	}
	if list, _ := svc.UserTemplates(); len(list) != 0 {
		t.Errorf("templates after delete = %d", len(list))
	}
}

func TestDesignService_AddCustomObject(t *testing.T) {
	e := newEnv(t)
	svc := newDesignService(t, e)
	ctx := context.Background()
	completeWizard(t, e, svc)

	obj, err := design.NewCustomObject("Invoice", "", "", "")
	if err != nil {
		t.Fatal(err)
	}
	st, err := svc.AddCustomObject(ctx, obj)
	if err != nil {
		t.Fatalf("add custom object: %v", err)
	}
	if len(st.Wizard.CustomObjects) != 1 || st.Wizard.CustomObjects[0].APIName != "Invoice__c" {
		t.Fatalf("custom objects = %+v", st.Wizard.CustomObjects)
	}
	if st.Wizard.Open {
		t.Error("wizard was closed before the call and should be closed after it")
	}
	if st.Design == nil {
		t.Error("open design should survive")
	}

	if _, err := svc.AddCustomObject(ctx, obj); err == nil {
		t.Error("duplicate api name should fail")
	}

	// The object can now be picked on the object step.
	svc.Dispatch(ctx, design.WizardOpen{})
	svc.Dispatch(ctx, design.WizardSelectPageType{PageType: domain.PageTypeRecord})
	st = svc.Dispatch(ctx, design.WizardSelectObject{Object: st.Wizard.CustomObjects[0]})
	if st.Wizard.Step != 3 {
		t.Errorf("step = %d, want 3", st.Wizard.Step)
	}
}

func TestDesignService_AddCustomObject_KeepsOpenWizard(t *testing.T) {
	e := newEnv(t)
	svc := newDesignService(t, e)
	ctx := context.Background()

	svc.Dispatch(ctx, design.WizardSelectPageType{PageType: domain.PageTypeHome})
	obj, _ := design.NewCustomObject("Shipment", "", "", "")
	st, err := svc.AddCustomObject(ctx, obj)
	if err != nil {
		t.Fatal(err)
	}
	if !st.Wizard.Open || st.Wizard.Step != 2 || st.Wizard.PageType != domain.PageTypeHome {
		t.Errorf("wizard = %+v, want open on step 2 with home", st.Wizard)
	}
}
