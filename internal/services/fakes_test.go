package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sherlockbot/cv-review-backend/internal/cv"
	"github.com/sherlockbot/cv-review-backend/internal/models"
	"github.com/sherlockbot/cv-review-backend/internal/storage"
)

// sampleCV is realistic enough for the heuristic analyzer to find
// sections, contact details and achievements in.
const sampleCV = `John Doe
john.doe@example.com | +234 801 234 5678 | linkedin.com/in/johndoe

Summary
Software engineer with 8 years of experience building backend systems
for fintech companies across three continents.

Experience
Senior Engineer, Acme Corp (2019-2024)
- Led a team of five engineers on the payments platform
- Reduced API latency by 40% through caching improvements
- Designed the fraud detection pipeline processing 2M+ events daily

Education
BSc Computer Science, University of Lagos (2015)

Skills
Go, Python, PostgreSQL, Kubernetes, AWS
`

// recordingStore wraps the in-memory store and appends every session
// write to a shared operation log so tests can assert write ordering
// against message sends.
type recordingStore struct {
	*storage.MemoryStore
	ops *[]string
}

func (r *recordingStore) SaveSession(session *models.Session) error {
	if r.ops != nil {
		*r.ops = append(*r.ops, "save:"+session.State)
	}
	return r.MemoryStore.SaveSession(session)
}

type fakeMessenger struct {
	ops  *[]string
	to   []string
	sent []string
	err  error
}

func (f *fakeMessenger) SendMessage(to, body string) error {
	if f.ops != nil {
		*f.ops = append(*f.ops, "send")
	}
	f.to = append(f.to, to)
	f.sent = append(f.sent, body)
	return f.err
}

func (f *fakeMessenger) last() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

type fakeMedia struct {
	data []byte
	err  error
}

func (f *fakeMedia) FetchMedia(url string) ([]byte, error) {
	return f.data, f.err
}

type fakeFiles struct {
	objects     map[string][]byte
	storeErr    error
	retrieveErr error
	stored      int
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{objects: map[string][]byte{}}
}

func (f *fakeFiles) Store(ctx context.Context, userID string, data []byte, contentType string) (string, error) {
	if f.storeErr != nil {
		return "", f.storeErr
	}
	f.stored++
	ref := fmt.Sprintf("cv-uploads/%s/%d.txt", userID, f.stored)
	f.objects[ref] = data
	return ref, nil
}

func (f *fakeFiles) Retrieve(ctx context.Context, ref string) ([]byte, error) {
	if f.retrieveErr != nil {
		return nil, f.retrieveErr
	}
	data, ok := f.objects[ref]
	if !ok {
		return nil, fmt.Errorf("no object %s", ref)
	}
	return data, nil
}

func (f *fakeFiles) DownloadURL(ctx context.Context, ref string, ttl time.Duration) (string, error) {
	return "https://files.example.com/" + ref, nil
}

// seed puts a document into the store and returns its ref.
func (f *fakeFiles) seed(userID, text string) string {
	ref := fmt.Sprintf("cv-uploads/%s/seed.txt", userID)
	f.objects[ref] = []byte(text)
	return ref
}

type fakePayments struct {
	createErr error
	created   int
	verifyErr error
	verify    *PaymentVerification
}

func (f *fakePayments) CreateSession(userID string, amount int, currency string) (*PaymentSession, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created++
	ref := fmt.Sprintf("cv-review-test%04d", f.created)
	return &PaymentSession{
		Reference:  ref,
		PaymentURL: "https://checkout.example.com/" + ref,
		AccessCode: "ac_" + ref,
	}, nil
}

func (f *fakePayments) Verify(reference string) (*PaymentVerification, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	if f.verify != nil {
		return f.verify, nil
	}
	return &PaymentVerification{Success: true, Amount: 5000, Currency: "NGN"}, nil
}

type fakeAnalyzer struct {
	analysis *Analysis
	err      error
	calls    int
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, doc *cv.Document, reviewType string) (*Analysis, error) {
	f.calls++
	return f.analysis, f.err
}

type fakeEmailer struct {
	err  error
	sent []string
}

func (f *fakeEmailer) SendReviewEmail(to string, review *models.ReviewResult) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeReports struct {
	err error
}

func (f *fakeReports) Render(ctx context.Context, userID string, review *models.ReviewResult) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	ref := "review-reports/" + userID + "/report.html"
	return ref, "https://files.example.com/" + ref, nil
}

// convFixture wires a ConversationService against fakes for every
// external system.
type convFixture struct {
	ops       []string
	store     *recordingStore
	messenger *fakeMessenger
	media     *fakeMedia
	files     *fakeFiles
	payments  *fakePayments
	emailer   *fakeEmailer
	sessions  *SessionService
	conv      *ConversationService
}

func newConvFixture() *convFixture {
	f := &convFixture{
		files:    newFakeFiles(),
		payments: &fakePayments{},
		emailer:  &fakeEmailer{},
	}
	f.store = &recordingStore{MemoryStore: storage.NewMemoryStore(), ops: &f.ops}
	f.messenger = &fakeMessenger{ops: &f.ops}
	f.media = &fakeMedia{data: []byte(sampleCV)}
	f.sessions = NewSessionService(f.store, 24*time.Hour)

	reviews := NewReviewService(f.store, f.files, nil, &fakeReports{}, f.emailer)
	f.conv = NewConversationService(
		f.sessions, f.store, f.messenger, f.media, f.files, f.payments,
		reviews, 5000, "NGN",
	)
	return f
}

// seedSession stores a session in the given state with a stored CV and
// returns it.
func (f *convFixture) seedSession(userID, state string) *models.Session {
	session := models.NewSession(userID)
	session.State = state
	session.DocumentRef = f.files.seed(userID, sampleCV)
	if err := f.store.MemoryStore.SaveSession(session); err != nil {
		panic(err)
	}
	return session
}

func (f *convFixture) session(userID string) *models.Session {
	session, err := f.store.GetSession(userID)
	if err != nil {
		panic(err)
	}
	return session
}

func textMessage(from, body string) *models.InboundMessage {
	return &models.InboundMessage{From: from, Body: body}
}

func documentMessage(from, contentType string) *models.InboundMessage {
	return &models.InboundMessage{
		From:        from,
		MediaCount:  1,
		MediaURL:    "https://api.twilio.com/media/ME123",
		ContentType: contentType,
	}
}
