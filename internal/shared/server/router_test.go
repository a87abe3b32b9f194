package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"casefile-backend/internal/actions"
	"casefile-backend/internal/analysis"
	"casefile-backend/internal/auth"
	"casefile-backend/internal/cases"
	"casefile-backend/internal/chat"
	"casefile-backend/internal/documents"
	"casefile-backend/internal/extracted"
	"casefile-backend/internal/intake"
	"casefile-backend/internal/llm"
	"casefile-backend/internal/shared/config"
	"casefile-backend/internal/shared/server"
	"casefile-backend/internal/shared/storage/memory"
	"casefile-backend/internal/shared/storage/object/local"
)

const analysisJSON = `{
	"caseNumber": "2024-CV-77",
	"parties": ["State", "J. Smith"],
	"deadlines": [{"date": "2024-09-15", "description": "Answer due", "priority": "high"}],
	"keyFacts": ["Service completed"],
	"confidence": 0.9,
	"suggestedActions": [
		{"title": "File answer", "description": "Draft and file", "rationale": "Deadline close", "priority": "high"}
	]
}`

// routedLLM answers extraction prompts with canned JSON and chat prompts
// with plain text.
type routedLLM struct{}

func (routedLLM) Generate(_ context.Context, prompt string, _ []llm.Attachment) (string, error) {
	if strings.Contains(prompt, "User message:") {
		return "Happy to help with that.", nil
	}
	return analysisJSON, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()

	mem := memory.New()
	store := local.New(t.TempDir())
	requester := &analysis.Requester{LLM: routedLLM{}}

	authSvc := &auth.Service{Users: mem.Users(), Sessions: mem.Sessions(), SessionTTL: time.Hour}
	caseSvc := &cases.Service{Repo: mem.Cases(), Docs: mem.Documents(), Actions: mem.Actions(), Store: store}
	chatSvc := &chat.Service{Repo: mem.Chat(), Replier: requester}
	actionSvc := &actions.Service{Repo: mem.Actions()}
	intakeSvc := &intake.Service{
		Cases:     mem.Cases(),
		Docs:      mem.Documents(),
		Chat:      mem.Chat(),
		Extracted: mem.Extracted(),
		Actions:   mem.Actions(),
		Store:     store,
		Analyzer:  requester,
	}

	router := server.NewRouter(server.RouterDeps{
		Config:           config.Config{CORSAllowOrigin: []string{"http://localhost:5173"}},
		Sessions:         authSvc,
		AuthHandler:      auth.NewHandler(authSvc, false),
		CaseHandler:      cases.NewHandler(caseSvc),
		DocumentHandler:  documents.NewHandler(mem.Documents()),
		IntakeHandler:    intake.NewHandler(intakeSvc),
		ChatHandler:      chat.NewHandler(chatSvc),
		ExtractedHandler: extracted.NewHandler(mem.Extracted()),
		ActionHandler:    actions.NewHandler(actionSvc),
	})

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return ts, &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s response: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func registerUser(t *testing.T, client *http.Client, base string) {
	t.Helper()
	status := doJSON(t, client, http.MethodPost, base+"/api/v1/auth/register", map[string]string{
		"username": "paralegal",
		"fullName": "Pat Paralegal",
		"email":    "pat@example.com",
		"password": "long enough password",
	}, nil)
	if status != http.StatusCreated {
		t.Fatalf("register status = %d", status)
	}
}

func createCase(t *testing.T, client *http.Client, base, name string) string {
	t.Helper()
	var cs cases.Case
	status := doJSON(t, client, http.MethodPost, base+"/api/v1/cases", map[string]string{
		"name": name, "caseNumber": "2024-CV-77",
	}, &cs)
	if status != http.StatusCreated {
		t.Fatalf("create case status = %d", status)
	}
	return cs.ID
}

func uploadDocument(t *testing.T, client *http.Client, base, caseID, fileName, content, instructions string) (intake.Result, int) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("files", fileName)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if instructions != "" {
		if err := mw.WriteField("userInstructions", instructions); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, base+"/api/v1/cases/"+caseID+"/documents", &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	defer resp.Body.Close()

	var res intake.Result
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
			t.Fatalf("decode upload response: %v", err)
		}
	}
	return res, resp.StatusCode
}

const documentText = "This stipulation and protective order governs the exchange of confidential discovery material between the parties."

func TestRequestsWithoutSessionAreRejected(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/cases")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "unauthorized" {
		t.Errorf("code = %q", body.Error.Code)
	}
}

func TestHealthIsPublic(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestUploadApproveAndViews(t *testing.T) {
	ts, client := newTestServer(t)
	registerUser(t, client, ts.URL)
	caseID := createCase(t, client, ts.URL, "Smith matter")

	res, status := uploadDocument(t, client, ts.URL, caseID, "stipulation.txt", documentText, "focus on deadlines")
	if status != http.StatusOK {
		t.Fatalf("upload status = %d", status)
	}
	if len(res.Documents) != 1 || len(res.Actions) != 1 {
		t.Fatalf("upload result = %+v", res)
	}

	// Case list shows the new document and its pending action.
	var summaries []cases.Summary
	if s := doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/cases", nil, &summaries); s != http.StatusOK {
		t.Fatalf("list cases status = %d", s)
	}
	if len(summaries) != 1 || summaries[0].DocumentCount != 1 || summaries[0].PendingApprovals != 1 {
		t.Fatalf("summaries = %+v", summaries)
	}

	// Approve the suggested action.
	var approved actions.SuggestedAction
	status = doJSON(t, client, http.MethodPatch,
		fmt.Sprintf("%s/api/v1/actions/%s", ts.URL, res.Actions[0].ID),
		map[string]string{"status": "approved"}, &approved)
	if status != http.StatusOK || approved.Status != actions.StatusApproved {
		t.Fatalf("approve: status=%d action=%+v", status, approved)
	}

	// Pending count drops to zero.
	if s := doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/cases", nil, &summaries); s != http.StatusOK {
		t.Fatalf("list cases status = %d", s)
	}
	if summaries[0].PendingApprovals != 0 {
		t.Errorf("pendingApprovals = %d, want 0", summaries[0].PendingApprovals)
	}

	// Approvals view carries case and document context.
	var approvals []actions.ApprovedView
	if s := doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/approvals", nil, &approvals); s != http.StatusOK {
		t.Fatalf("approvals status = %d", s)
	}
	if len(approvals) != 1 || approvals[0].CaseName != "Smith matter" || approvals[0].DocumentName != "stipulation.txt" {
		t.Fatalf("approvals = %+v", approvals)
	}

	// Deadlines view flattens extraction deadlines across cases.
	var deadlines []extracted.DeadlineView
	if s := doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/deadlines", nil, &deadlines); s != http.StatusOK {
		t.Fatalf("deadlines status = %d", s)
	}
	if len(deadlines) != 1 || deadlines[0].Description != "Answer due" || deadlines[0].CaseNumber != "2024-CV-77" {
		t.Fatalf("deadlines = %+v", deadlines)
	}

	// Chat history holds the upload notice and the analysis message.
	var msgs []chat.Message
	if s := doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/cases/"+caseID+"/messages", nil, &msgs); s != http.StatusOK {
		t.Fatalf("messages status = %d", s)
	}
	if len(msgs) != 2 || !msgs[1].IsAnalysis {
		t.Fatalf("messages = %+v", msgs)
	}
}

func TestUploadRejectsUnreadableFile(t *testing.T) {
	ts, client := newTestServer(t)
	registerUser(t, client, ts.URL)
	caseID := createCase(t, client, ts.URL, "Smith matter")

	_, status := uploadDocument(t, client, ts.URL, caseID, "thin.txt", "too short", "")
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}

	// Nothing from the failed batch survives.
	var docs []documents.Document
	if s := doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/cases/"+caseID+"/documents", nil, &docs); s != http.StatusOK {
		t.Fatalf("list documents status = %d", s)
	}
	if len(docs) != 0 {
		t.Errorf("documents = %+v", docs)
	}
}

func TestChatMessageGetsAssistantReply(t *testing.T) {
	ts, client := newTestServer(t)
	registerUser(t, client, ts.URL)
	caseID := createCase(t, client, ts.URL, "Smith matter")

	var posted struct {
		UserMessage chat.Message  `json:"userMessage"`
		AIMessage   *chat.Message `json:"aiMessage"`
	}
	status := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/cases/"+caseID+"/messages",
		map[string]string{"content": "what should I do next?"}, &posted)
	if status != http.StatusOK {
		t.Fatalf("post message status = %d", status)
	}
	if posted.UserMessage.Role != chat.RoleUser {
		t.Errorf("user message = %+v", posted.UserMessage)
	}
	if posted.AIMessage == nil || posted.AIMessage.Content != "Happy to help with that." {
		t.Errorf("ai message = %+v", posted.AIMessage)
	}
}

func TestDeleteCaseRemovesEverything(t *testing.T) {
	ts, client := newTestServer(t)
	registerUser(t, client, ts.URL)
	caseID := createCase(t, client, ts.URL, "Smith matter")

	if _, status := uploadDocument(t, client, ts.URL, caseID, "a.txt", documentText, ""); status != http.StatusOK {
		t.Fatalf("upload status = %d", status)
	}

	if s := doJSON(t, client, http.MethodDelete, ts.URL+"/api/v1/cases/"+caseID, nil, nil); s != http.StatusOK {
		t.Fatalf("delete status = %d", s)
	}

	var summaries []cases.Summary
	if s := doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/cases", nil, &summaries); s != http.StatusOK {
		t.Fatalf("list status = %d", s)
	}
	if len(summaries) != 0 {
		t.Errorf("cases = %+v", summaries)
	}

	var deadlines []extracted.DeadlineView
	if s := doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/deadlines", nil, &deadlines); s != http.StatusOK {
		t.Fatalf("deadlines status = %d", s)
	}
	if len(deadlines) != 0 {
		t.Errorf("deadlines = %+v", deadlines)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	ts, client := newTestServer(t)
	registerUser(t, client, ts.URL)

	if s := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/auth/logout", nil, nil); s != http.StatusOK {
		t.Fatalf("logout status = %d", s)
	}

	var out any
	if s := doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/cases", nil, &out); s != http.StatusUnauthorized {
		t.Fatalf("status after logout = %d, want 401", s)
	}
}
