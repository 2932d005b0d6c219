package walkthrough_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/walkthrough"
	"github.com/aretw0/walkthrough/pkg/analysis"
	"github.com/aretw0/walkthrough/pkg/catalog"
	"github.com/aretw0/walkthrough/pkg/domain"
)

// ExampleNew walks a two-step catalog from greeting to completion.
func ExampleNew() {
	cat, err := catalog.New([]domain.InstallationStep{
		{ID: "download", Text: "Download the installer."},
		{ID: "install", Text: "Run the installer."},
	}, catalog.WithCompletion("All done."))
	if err != nil {
		log.Fatal(err)
	}

	guide, err := walkthrough.New(
		walkthrough.WithCatalog(cat),
		walkthrough.WithAnalyzer(analysis.NewStub(analysis.WithDetour("", "", ""))),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer guide.Shutdown()

	ctx := context.Background()
	sess, err := guide.Start(ctx)
	if err != nil {
		log.Fatal(err)
	}

	show := func(sess *domain.Session) {
		last, _ := sess.Transcript.Last()
		fmt.Printf("[%d/%d] %s\n", sess.State.StepIndex, sess.State.StepCount, last.Content)
	}

	sess, _ = guide.RespondPermission(ctx, sess.ID, domain.PermissionOK)
	show(sess)
	sess, _ = guide.RespondStep(ctx, sess.ID, domain.StepDone)
	show(sess)
	sess, _ = guide.RespondStep(ctx, sess.ID, domain.StepDone)
	show(sess)

	// Output:
	// [0/2] Download the installer.
	// [1/2] Run the installer.
	// [2/2] All done.
}
