package utils_test

import (
	"net/http"
	"testing"

	"jobreach-utils/pkg/utils"
)

func TestCustomError_Error(t *testing.T) {
	plain := &utils.CustomError{Code: 500, Message: "boom"}
	if plain.Error() != "boom" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "boom")
	}

	detailed := &utils.CustomError{Code: 400, Message: "Validation failed", Detail: "missing field"}
	if detailed.Error() != "Validation failed: missing field" {
		t.Errorf("Error() = %q, want message with detail", detailed.Error())
	}
}

func TestErrorConstructors_Codes(t *testing.T) {
	cases := []struct {
		name string
		err  *utils.CustomError
		want int
	}{
		{"bad_request", utils.NewBadRequestError("bad"), http.StatusBadRequest},
		{"internal", utils.NewInternalServerError("oops"), http.StatusInternalServerError},
		{"timeout", utils.NewTimeoutError("slow"), http.StatusRequestTimeout},
		{"validation", utils.NewValidationError("field"), http.StatusBadRequest},
		{"crawl", utils.NewCrawlError("no pages"), http.StatusUnprocessableEntity},
		{"search", utils.NewSearchError("status 500"), http.StatusBadGateway},
		{"llm", utils.NewLLMError("no response"), http.StatusBadGateway},
	}
	for _, c := range cases {
		if c.err.Code != c.want {
			t.Errorf("%s: Code = %d, want %d", c.name, c.err.Code, c.want)
		}
	}
}
