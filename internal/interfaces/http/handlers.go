package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/molsift/molsift/internal/application/pipeline"
	"github.com/molsift/molsift/pkg/errors"
	"github.com/molsift/molsift/pkg/types/compound"
)

type evaluateRequest struct {
	Notation string `json:"notation" binding:"required"`
	Name     string `json:"name"`
}

type evaluateResponse struct {
	Compound *compound.DescriptorRecord `json:"compound"`
	Verdicts []compound.RuleVerdict     `json:"verdicts"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func abortWithError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	c.AbortWithStatusJSON(errors.HTTPStatusForCode(code), errorResponse{
		Code:    code.String(),
		Message: errors.Reason(err),
	})
}

// handleEvaluate runs one compound through the provider and rule engine and
// returns its descriptors and verdicts.
func handleEvaluate(runner *pipeline.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req evaluateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, errors.Wrap(err, errors.CodeInvalidParam, "invalid request body"))
			return
		}

		rec, verdicts, err := runner.EvaluateOne(c.Request.Context(), compound.CompoundInput{
			Notation: req.Notation,
			Name:     req.Name,
		})
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, evaluateResponse{Compound: rec, Verdicts: verdicts})
	}
}

type ruleInfo struct {
	Name     string `json:"name"`
	Criteria int    `json:"criteria"`
}

// handleRules lists the configured rule sets.
func handleRules(runner *pipeline.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		defs := runner.Definitions()
		out := make([]ruleInfo, 0, len(defs))
		for _, d := range defs {
			out = append(out, ruleInfo{Name: d.Name, Criteria: len(d.Criteria)})
		}
		c.JSON(http.StatusOK, gin.H{"rules": out})
	}
}
