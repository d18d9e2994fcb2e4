package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sparktechagency/el-badaoui-dashboard/internal/app/dto"

	"github.com/gin-gonic/gin"
)

func newTestRouter() (*gin.Engine, *APIHandler) {
	gin.SetMode(gin.TestMode)
	h := NewAPIHandler(nil, nil, nil)
	r := gin.New()
	r.POST("/api/v1/questions", h.CreateQuestion)
	r.GET("/images/:name", h.ServeImage)
	return r, h
}

func buildQuestionForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for field, value := range fields {
		if err := mw.WriteField(field, value); err != nil {
			t.Fatalf("write field %s: %v", field, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &body, mw.FormDataContentType()
}

func postQuestion(t *testing.T, r *gin.Engine, fields map[string]string) (*httptest.ResponseRecorder, dto.APIResponse) {
	t.Helper()
	body, contentType := buildQuestionForm(t, fields)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/questions", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp dto.APIResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return w, resp
}

func TestCreateQuestionRejectsUnknownType(t *testing.T) {
	r, _ := newTestRouter()
	w, resp := postQuestion(t, r, map[string]string{
		"questionText": "Floor type?",
		"questionType": "CHECKBOX",
		"categoryId":   "cat-1",
		"data":         `{"options":[{"optionText":"Laminate","priceModifierValue":0,"priceModifierType":"FIXED"}]}`,
	})
	if w.Code != http.StatusBadRequest || resp.Success {
		t.Fatalf("status = %d, success = %v", w.Code, resp.Success)
	}
}

func TestCreateQuestionRejectsLegacySingleChoice(t *testing.T) {
	r, _ := newTestRouter()
	w, resp := postQuestion(t, r, map[string]string{
		"questionText": "Urgency?",
		"questionType": "SINGLE_CHOICE",
		"categoryId":   "cat-1",
		"data":         `{"options":[{"optionText":"Today","priceModifierValue":0,"priceModifierType":"FIXED"}]}`,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if resp.Message != "single choice questions can no longer be created" {
		t.Fatalf("message = %q", resp.Message)
	}
}

func TestCreateQuestionRejectsBlankText(t *testing.T) {
	r, _ := newTestRouter()
	w, resp := postQuestion(t, r, map[string]string{
		"questionText": "   ",
		"questionType": "MULTIPLE_CHOICE",
		"categoryId":   "cat-1",
		"data":         `{"options":[{"optionText":"Laminate","priceModifierValue":0,"priceModifierType":"FIXED"}]}`,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if resp.Message != "please enter question text" {
		t.Fatalf("message = %q", resp.Message)
	}
}

func TestCreateQuestionRequiresCategory(t *testing.T) {
	r, _ := newTestRouter()
	w, resp := postQuestion(t, r, map[string]string{
		"questionText": "Floor type?",
		"questionType": "MULTIPLE_CHOICE",
		"data":         `{"options":[{"optionText":"Laminate","priceModifierValue":0,"priceModifierType":"FIXED"}]}`,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if resp.Message != "categoryId is required" {
		t.Fatalf("message = %q", resp.Message)
	}
}

func TestServeImageWithoutStorage(t *testing.T) {
	r, _ := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/images/option_abc.png", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}
