package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/meikuraledutech/automation"
	"github.com/meikuraledutech/automation/config"
	"github.com/meikuraledutech/automation/editor"
	"github.com/meikuraledutech/automation/graphfile"
	"github.com/meikuraledutech/automation/logging"
	"github.com/meikuraledutech/automation/postgres"
	"github.com/meikuraledutech/automation/wizard"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.Logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cfg.Database.Validate(); err != nil {
		log.Fatal("config", zap.Error(err))
	}
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal("connect", zap.Error(err))
	}
	defer pool.Close()

	// Wire up the postgres implementation behind the Store and Catalog interfaces.
	store := postgres.New(pool, postgres.WithLogger(log))

	// 1. Create tables
	if err := store.CreateSchema(ctx); err != nil {
		log.Fatal("schema", zap.Error(err))
	}
	fmt.Println("schema created")

	// 2. Seed the option lists the wizard offers
	seed := map[automation.OptionKind][]automation.Option{
		automation.OptionService:  {{ID: "svc-comment", Label: "Comment"}, {ID: "svc-dm", Label: "Direct message"}},
		automation.OptionPlatform: {{ID: "ig", Label: "Instagram"}, {ID: "fb", Label: "Facebook"}},
		automation.OptionPage:     {{ID: "page-ig", Label: "Acme on Instagram", PlatformID: "ig"}},
	}
	for kind, opts := range seed {
		if err := store.PutOptions(ctx, kind, opts); err != nil {
			log.Fatal("seed options", zap.String("kind", string(kind)), zap.Error(err))
		}
	}
	fmt.Println("options seeded")

	// ── Graph editor ──────────────────────────────────────────────────
	ed := editor.New("Comment replies", store, editor.WithLogger(log))

	trigger, err := ed.AddNode(automation.KindTrigger, map[string]any{
		"label":       "New comment",
		"description": "Triggered by a new comment",
		"platform":    "Instagram",
		"triggerType": "Comment",
	}, automation.Position{X: 100, Y: 100})
	if err != nil {
		log.Fatal("add trigger", zap.Error(err))
	}
	reply, err := ed.AddNode(automation.KindAction, map[string]any{
		"label":       "Reply",
		"description": "Reply to comment",
		"actionType":  "reply",
	}, automation.Position{X: 400, Y: 100})
	if err != nil {
		log.Fatal("add action", zap.Error(err))
	}

	// 3. Saving before connecting fails with the orphan count
	if _, err := ed.Save(ctx); err != nil {
		fmt.Printf("save rejected: %v\n", automation.Problems(err))
	}

	// 4. Connect and save
	if _, err := ed.Connect(trigger.ID, reply.ID, automation.HandleDefault); err != nil {
		log.Fatal("connect nodes", zap.Error(err))
	}
	rec, err := ed.Save(ctx)
	if err != nil {
		log.Fatal("save", zap.Error(err))
	}
	fmt.Printf("editor saved %s: %s / %s -> %s\n", rec.ID, rec.Platform, rec.Type, rec.Response)

	// ── Step wizard ───────────────────────────────────────────────────
	w := wizard.New(store, store, wizard.WithLogger(log))
	for _, step := range []wizard.Step{wizard.StepTrigger, wizard.StepPlatform} {
		if _, err := w.LoadOptions(ctx, step); err != nil {
			log.Fatal("load options", zap.Error(err))
		}
	}

	// 5. Walk every step, answering what each one asks for
	w.SetService("svc-comment")
	w.SetPlatform("ig")
	w.SetPage("page-ig")
	w.AddKeyword("price")
	w.AddKeyword("cost")
	w.SetCommentContent("Sent you the details!")
	w.SetDMContent("Here is our price list")
	w.AddQuickLink("Shop", "https://example.com/shop")
	w.SetLabel("Price questions")
	for w.Step() != wizard.StepConfig {
		if problems := w.Next(); problems != nil {
			log.Fatal("wizard step", zap.String("step", string(w.Step())), zap.Strings("problems", problems))
		}
	}
	rec, err = w.Save(ctx)
	if err != nil {
		log.Fatal("wizard save", zap.Error(err))
	}
	fmt.Printf("wizard saved %s: %s / %s -> %s\n", rec.ID, rec.Platform, rec.Type, rec.Response)

	// 6. List and export
	recs, err := store.ListAutomations(ctx, automation.ListFilter{Platform: "Instagram"})
	if err != nil {
		log.Fatal("list", zap.Error(err))
	}
	full := make([]automation.Record, 0, len(recs))
	for _, r := range recs {
		got, err := store.GetAutomation(ctx, r.ID)
		if err != nil {
			log.Fatal("get", zap.Error(err))
		}
		full = append(full, *got)
	}
	if err := graphfile.EncodeRecords(os.Stdout, full); err != nil {
		log.Fatal("export", zap.Error(err))
	}

	// 7. Switch the wizard automation off
	if err := store.SetStatus(ctx, rec.ID, automation.StatusInactive); err != nil {
		log.Fatal("status", zap.Error(err))
	}
	fmt.Println("wizard automation deactivated")
}
