package usecase

import (
	"context"
	"errors"
	"testing"

	"paprd/internal/domain"
)

func intPtr(v int) *int { return &v }

func seedResearcher(t *testing.T, repo *fakeResearcherRepo, channel string) *domain.Researcher {
	t.Helper()
	r, err := repo.Create(context.Background(), domain.Researcher{ChannelName: channel, PublicKey: "pub-" + channel})
	if err != nil {
		t.Fatalf("seed researcher %s: %v", channel, err)
	}
	return r
}

func signedRecord(channel, title, authors string) domain.PublicationRecord {
	return domain.PublicationRecord{
		ClaimName:      "claim",
		ClaimID:        "deadbeef",
		SigningChannel: channel,
		SignatureValid: true,
		Title:          title,
		Author:         authors,
		PublicKey:      "stream-key",
	}
}

func TestSubmitManuscript_FirstRevision(t *testing.T) {
	researchers := newFakeResearcherRepo()
	articles := newFakeArticleRepo()
	seedResearcher(t, researchers, "@RTremblay")
	ledger := &fakeLedger{records: map[string]domain.PublicationRecord{
		"fun-with-particles_rev0": signedRecord("@RTremblay", "Fun with particles", "Rene Tremblay"),
	}}
	flow := &SubmitManuscript{Articles: articles, Researchers: researchers, Ledger: ledger}

	article, manuscript, err := flow.Execute(context.Background(), SubmitRequest{
		Article:             "fun-with-particles",
		ClaimName:           "fun-with-particles_rev0",
		Title:               "Fun with particles",
		Authors:             "Rene Tremblay",
		CorrespondingAuthor: "@RTremblay",
		Revision:            intPtr(0),
	}, "@RTremblay")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if article.Status != domain.ArticleStatusPending {
		t.Fatalf("expected pending status, got %s", article.Status)
	}
	if article.Revision != 0 {
		t.Fatalf("expected revision 0, got %d", article.Revision)
	}
	if manuscript.ArticleID != article.ID {
		t.Fatal("manuscript not attached to article")
	}
	if manuscript.PublicKey != "stream-key" {
		t.Fatalf("manuscript key should mirror the ledger record, got %q", manuscript.PublicKey)
	}
}

func TestSubmitManuscript_AuthorMustMatchToken(t *testing.T) {
	researchers := newFakeResearcherRepo()
	seedResearcher(t, researchers, "@RTremblay")
	flow := &SubmitManuscript{Articles: newFakeArticleRepo(), Researchers: researchers, Ledger: &fakeLedger{}}

	for _, author := range []string{"", "@SomeoneElse"} {
		_, _, err := flow.Execute(context.Background(), SubmitRequest{
			Article:             "fun-with-particles",
			ClaimName:           "fun-with-particles_rev0",
			Title:               "t",
			Authors:             "a",
			CorrespondingAuthor: author,
			Revision:            intPtr(0),
		}, "@RTremblay")
		if !errors.Is(err, domain.ErrNotCorrespondingAuthor) {
			t.Fatalf("author %q: expected ErrNotCorrespondingAuthor, got %v", author, err)
		}
	}
}

func TestSubmitManuscript_RevisionRequired(t *testing.T) {
	researchers := newFakeResearcherRepo()
	seedResearcher(t, researchers, "@RTremblay")
	flow := &SubmitManuscript{Articles: newFakeArticleRepo(), Researchers: researchers, Ledger: &fakeLedger{}}

	_, _, err := flow.Execute(context.Background(), SubmitRequest{
		Article:             "fun-with-particles",
		ClaimName:           "fun-with-particles_rev0",
		Title:               "t",
		Authors:             "a",
		CorrespondingAuthor: "@RTremblay",
	}, "@RTremblay")
	if !errors.Is(err, domain.ErrRevisionRequired) {
		t.Fatalf("expected ErrRevisionRequired, got %v", err)
	}
}

func TestSubmitManuscript_MismatchWritesNothing(t *testing.T) {
	researchers := newFakeResearcherRepo()
	articles := newFakeArticleRepo()
	seedResearcher(t, researchers, "@RTremblay")
	ledger := &fakeLedger{records: map[string]domain.PublicationRecord{
		"fun-with-particles_rev0": signedRecord("@RTremblay", "Fun with particles", "Rene Tremblay"),
	}}
	flow := &SubmitManuscript{Articles: articles, Researchers: researchers, Ledger: ledger}

	base := SubmitRequest{
		Article:             "fun-with-particles",
		ClaimName:           "fun-with-particles_rev0",
		CorrespondingAuthor: "@RTremblay",
		Revision:            intPtr(0),
	}

	titleReq := base
	titleReq.Title = "A different title"
	titleReq.Authors = "Rene Tremblay"
	if _, _, err := flow.Execute(context.Background(), titleReq, "@RTremblay"); !errors.Is(err, domain.ErrTitleMismatch) {
		t.Fatalf("expected ErrTitleMismatch, got %v", err)
	}

	authorsReq := base
	authorsReq.Title = "Fun with particles"
	authorsReq.Authors = "Somebody Else"
	if _, _, err := flow.Execute(context.Background(), authorsReq, "@RTremblay"); !errors.Is(err, domain.ErrAuthorsMismatch) {
		t.Fatalf("expected ErrAuthorsMismatch, got %v", err)
	}

	if len(articles.articles) != 0 || len(articles.manuscripts) != 0 {
		t.Fatal("rejected submissions must not persist rows")
	}
}

func TestSubmitManuscript_RequiresChannelSignature(t *testing.T) {
	researchers := newFakeResearcherRepo()
	seedResearcher(t, researchers, "@RTremblay")

	unsigned := signedRecord("@RTremblay", "Fun with particles", "Rene Tremblay")
	unsigned.SignatureValid = false
	foreign := signedRecord("@Mallory", "Fun with particles", "Rene Tremblay")
	ledger := &fakeLedger{records: map[string]domain.PublicationRecord{
		"unsigned_rev0": unsigned,
		"foreign_rev0":  foreign,
	}}
	flow := &SubmitManuscript{Articles: newFakeArticleRepo(), Researchers: researchers, Ledger: ledger}

	for _, claim := range []string{"unsigned_rev0", "foreign_rev0"} {
		_, _, err := flow.Execute(context.Background(), SubmitRequest{
			Article:             "fun-with-particles",
			ClaimName:           claim,
			Title:               "Fun with particles",
			Authors:             "Rene Tremblay",
			CorrespondingAuthor: "@RTremblay",
			Revision:            intPtr(0),
		}, "@RTremblay")
		if !errors.Is(err, domain.ErrNotSignedByChannel) {
			t.Fatalf("claim %s: expected ErrNotSignedByChannel, got %v", claim, err)
		}
	}
}

func TestSubmitManuscript_RevisionZeroOnlyOnce(t *testing.T) {
	researchers := newFakeResearcherRepo()
	articles := newFakeArticleRepo()
	seedResearcher(t, researchers, "@RTremblay")
	ledger := &fakeLedger{records: map[string]domain.PublicationRecord{
		"fun-with-particles_rev0": signedRecord("@RTremblay", "Fun with particles", "Rene Tremblay"),
		"fun-with-particles_rev1": signedRecord("@RTremblay", "Fun with particles", "Rene Tremblay"),
	}}
	flow := &SubmitManuscript{Articles: articles, Researchers: researchers, Ledger: ledger}

	first := SubmitRequest{
		Article:             "fun-with-particles",
		ClaimName:           "fun-with-particles_rev0",
		Title:               "Fun with particles",
		Authors:             "Rene Tremblay",
		CorrespondingAuthor: "@RTremblay",
		Revision:            intPtr(0),
	}
	if _, _, err := flow.Execute(context.Background(), first, "@RTremblay"); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, _, err := flow.Execute(context.Background(), first, "@RTremblay"); !errors.Is(err, domain.ErrArticleExists) {
		t.Fatalf("expected ErrArticleExists, got %v", err)
	}

	second := first
	second.ClaimName = "fun-with-particles_rev1"
	second.Revision = intPtr(1)
	article, _, err := flow.Execute(context.Background(), second, "@RTremblay")
	if err != nil {
		t.Fatalf("revision 1 submit: %v", err)
	}
	if article.Revision != 1 {
		t.Fatalf("expected revision 1, got %d", article.Revision)
	}
	if len(articles.manuscripts) != 2 {
		t.Fatalf("expected 2 manuscript rows, got %d", len(articles.manuscripts))
	}
}

func TestSubmitManuscript_RevisionsOnlyFromArticleOwner(t *testing.T) {
	researchers := newFakeResearcherRepo()
	articles := newFakeArticleRepo()
	seedResearcher(t, researchers, "@RTremblay")
	seedResearcher(t, researchers, "@Mallory")
	ledger := &fakeLedger{records: map[string]domain.PublicationRecord{
		"fun-with-particles_rev0": signedRecord("@RTremblay", "Fun with particles", "Rene Tremblay"),
		"mallory-claim_rev1":      signedRecord("@Mallory", "Fun with particles", "Mallory"),
	}}
	flow := &SubmitManuscript{Articles: articles, Researchers: researchers, Ledger: ledger}

	if _, _, err := flow.Execute(context.Background(), SubmitRequest{
		Article:             "fun-with-particles",
		ClaimName:           "fun-with-particles_rev0",
		Title:               "Fun with particles",
		Authors:             "Rene Tremblay",
		CorrespondingAuthor: "@RTremblay",
		Revision:            intPtr(0),
	}, "@RTremblay"); err != nil {
		t.Fatalf("seed article: %v", err)
	}

	// A second researcher with their own validly signed claim cannot attach
	// a revision to somebody else's article by naming its base claim.
	_, _, err := flow.Execute(context.Background(), SubmitRequest{
		Article:             "fun-with-particles",
		ClaimName:           "mallory-claim_rev1",
		Title:               "Fun with particles",
		Authors:             "Mallory",
		CorrespondingAuthor: "@Mallory",
		Revision:            intPtr(1),
	}, "@Mallory")
	if !errors.Is(err, domain.ErrNotCorrespondingAuthor) {
		t.Fatalf("expected ErrNotCorrespondingAuthor, got %v", err)
	}

	article, err := articles.GetByBaseClaimName(context.Background(), "fun-with-particles")
	if err != nil {
		t.Fatalf("get article: %v", err)
	}
	if article.Revision != 0 {
		t.Fatalf("revision must stay 0, got %d", article.Revision)
	}
	if len(articles.manuscripts) != 1 {
		t.Fatalf("expected 1 manuscript row, got %d", len(articles.manuscripts))
	}
}

func TestSubmitManuscript_EncryptedNeedsPassphrase(t *testing.T) {
	researchers := newFakeResearcherRepo()
	seedResearcher(t, researchers, "@RTremblay")
	flow := &SubmitManuscript{Articles: newFakeArticleRepo(), Researchers: researchers, Ledger: &fakeLedger{}}

	_, _, err := flow.Execute(context.Background(), SubmitRequest{
		Article:             "fun-with-particles",
		ClaimName:           "fun-with-particles_rev0",
		Title:               "t",
		Authors:             "a",
		CorrespondingAuthor: "@RTremblay",
		Revision:            intPtr(0),
		Encrypted:           true,
	}, "@RTremblay")
	if !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}
