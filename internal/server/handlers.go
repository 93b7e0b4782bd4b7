package server

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spigell/resume-matcher/internal/analysis"
	"github.com/spigell/resume-matcher/internal/jobdesc"
	"github.com/spigell/resume-matcher/internal/resume"
)

const (
	resumeField  = "resume"
	jobTextField = "jobText"

	invalidJSONNotice = "invalid JSON body"
	tooLargeNotice    = "uploaded file is too large"
)

type analyzeRequest struct {
	ResumeText string `json:"resumeText"`
	JobText    string `json:"jobText"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) sampleJob(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"jobDescription": jobdesc.Sample})
}

func (s *Server) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidJSONNotice})
		return
	}

	s.respond(c, req.ResumeText, req.JobText)
}

func (s *Server) analyzeUpload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)

	header, err := c.FormFile(resumeField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": tooLargeNotice})
			return
		}
		_ = c.Error(err)
		s.fail(c, analysis.ErrMissingInput)
		return
	}

	file, err := header.Open()
	if err != nil {
		s.fail(c, errors.Join(resume.ErrReadFailed, err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.fail(c, errors.Join(resume.ErrReadFailed, err))
		return
	}

	doc, err := resume.Extract(header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.respond(c, doc.Text, c.PostForm(jobTextField))
}

func (s *Server) respond(c *gin.Context, resumeText, jobText string) {
	result, err := s.service.Analyze(c.Request.Context(), analysis.Request{
		ResumeText: resumeText,
		JobText:    jobText,
		Source:     analysis.SourceHTTP,
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(statusFor(err), gin.H{"error": analysis.Notice(err)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, resume.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, analysis.ErrMissingInput),
		errors.Is(err, resume.ErrEmptyDocument),
		errors.Is(err, resume.ErrReadFailed):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
