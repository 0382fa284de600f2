package handlers

import (
	"errors"
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"mealhub/internal/middleware"
	"mealhub/internal/services"
	"mealhub/internal/utils"
)

// bindJSON decodes the body into request, writing a 400 on failure.
func bindJSON(c *gin.Context, request interface{}) bool {
	if err := c.ShouldBindJSON(request); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidRequest)
		return false
	}
	return true
}

// bindForm accepts either a JSON body or multipart form fields.
func bindForm(c *gin.Context, request interface{}) bool {
	if !isMultipart(c) {
		return bindJSON(c, request)
	}
	if err := c.ShouldBind(request); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidRequest)
		return false
	}
	return true
}

func bindQuery(c *gin.Context, query interface{}) bool {
	if err := c.ShouldBindQuery(query); err != nil {
		utils.BadRequestResponse(c, "Invalid query parameters")
		return false
	}
	return true
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// multipartForm returns nil for non-multipart requests.
func multipartForm(c *gin.Context) (*multipart.Form, bool) {
	if !isMultipart(c) {
		return nil, true
	}
	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, "Invalid multipart form")
		return nil, false
	}
	return form, true
}

// uploads reads single-file parts by field name.
func uploads(c *gin.Context, fields ...string) (map[string]*utils.UploadedFile, bool) {
	form, ok := multipartForm(c)
	if !ok {
		return nil, false
	}
	files, err := utils.ReadImageUploads(form, fields...)
	if err != nil {
		uploadFailed(c, err)
		return nil, false
	}
	return files, true
}

// uploadList reads every part under one field.
func uploadList(c *gin.Context, field string) ([]*utils.UploadedFile, bool) {
	form, ok := multipartForm(c)
	if !ok {
		return nil, false
	}
	files, err := utils.ReadImageUploadList(form, field)
	if err != nil {
		uploadFailed(c, err)
		return nil, false
	}
	return files, true
}

func uploadFailed(c *gin.Context, err error) {
	var uploadErr *utils.UploadError
	if errors.As(err, &uploadErr) {
		utils.BadRequestResponse(c, uploadErr.Message)
		return
	}
	utils.HandleError(c, utils.NewValidationError("Failed to read upload"))
}

// paramID parses a path parameter as an ObjectID.
func paramID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidID)
		return primitive.NilObjectID, false
	}
	return id, true
}

// currentAuth returns the identity set by the auth middleware.
func currentAuth(c *gin.Context) (*services.AuthContext, bool) {
	auth, ok := middleware.GetAuth(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return nil, false
	}
	return auth, true
}

func principalID(c *gin.Context) (primitive.ObjectID, bool) {
	auth, ok := currentAuth(c)
	if !ok {
		return primitive.NilObjectID, false
	}
	return auth.PrincipalID, true
}

func currentActor(c *gin.Context) (*services.Actor, bool) {
	auth, ok := currentAuth(c)
	if !ok {
		return nil, false
	}
	return auth.Actor(), true
}

// validated runs a validator and writes its error.
func validated(c *gin.Context, err error) bool {
	if err != nil {
		utils.HandleError(c, err)
		return false
	}
	return true
}
