package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	appbook "github.com/xiebiao/horizon-library/internal/application/book"
	"github.com/xiebiao/horizon-library/internal/domain/book"
	"github.com/xiebiao/horizon-library/internal/infrastructure/config"
	"github.com/xiebiao/horizon-library/internal/interface/http/dto"
	apperrors "github.com/xiebiao/horizon-library/pkg/errors"
	"github.com/xiebiao/horizon-library/pkg/response"
)

// 表单中除文件外的部分
const formOverheadBytes = 1 << 20

// BookHandler 图书HTTP处理器
// 设计说明：
// 1. 写操作（馆员）支持multipart/form-data（可带封面）和JSON两种请求格式
// 2. 读操作（公开）只返回JSON
// 3. 只负责HTTP解析与响应，业务规则在领域服务
type BookHandler struct {
	createUseCase *appbook.CreateBookUseCase
	updateUseCase *appbook.UpdateBookUseCase
	deleteUseCase *appbook.DeleteBookUseCase
	getUseCase    *appbook.GetBookUseCase
	listUseCase   *appbook.ListBooksUseCase

	maxBodyBytes int64
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	createUseCase *appbook.CreateBookUseCase,
	updateUseCase *appbook.UpdateBookUseCase,
	deleteUseCase *appbook.DeleteBookUseCase,
	getUseCase *appbook.GetBookUseCase,
	listUseCase *appbook.ListBooksUseCase,
	cfg *config.Config,
) *BookHandler {
	return &BookHandler{
		createUseCase: createUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
		getUseCase:    getUseCase,
		listUseCase:   listUseCase,
		maxBodyBytes:  cfg.Storage.MaxUploadBytes + formOverheadBytes,
	}
}

// CreateBook 创建图书
// @Summary      创建图书
// @Description  馆员新增图书，multipart请求可通过coverImage字段上传封面
// @Tags         馆员-图书
// @Accept       multipart/form-data,json
// @Produce      json
// @Security     BearerAuth
// @Param        title           formData string true  "书名"
// @Param        author          formData string true  "作者"
// @Param        isbn            formData string true  "ISBN"
// @Param        published_date  formData string true  "出版日期（YYYY-MM-DD）"
// @Param        description     formData string false "简介"
// @Param        shelf_number    formData string false "书架号"
// @Param        row_position    formData string false "排号"
// @Param        coverImage      formData file   false "封面图片"
// @Success      201 {object} response.Response{data=appbook.BookDTO}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      401 {object} response.Response "未登录"
// @Failure      403 {object} response.Response "无权限"
// @Failure      409 {object} response.Response "ISBN已存在"
// @Router       /api/v1/librarian/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	in, err := h.bindInput(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer in.close()

	result, err := h.createUseCase.Execute(c.Request.Context(), appbook.CreateBookRequest{
		Fields: in.fields,
		Cover:  in.upload,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateBook 更新图书
// @Summary      更新图书
// @Description  未提供的字段保持不变；上传coverImage替换封面，cover_image_url传空值移除封面
// @Tags         馆员-图书
// @Accept       multipart/form-data,json
// @Produce      json
// @Security     BearerAuth
// @Param        id               path     int    true  "图书ID"
// @Param        title            formData string false "书名"
// @Param        author           formData string false "作者"
// @Param        isbn             formData string false "ISBN"
// @Param        published_date   formData string false "出版日期（YYYY-MM-DD）"
// @Param        description      formData string false "简介"
// @Param        shelf_number     formData string false "书架号"
// @Param        row_position     formData string false "排号"
// @Param        coverImage       formData file   false "新封面图片"
// @Param        cover_image_url  formData string false "传空值表示移除封面"
// @Success      200 {object} response.Response{data=appbook.BookDTO}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "ISBN已存在"
// @Router       /api/v1/librarian/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	in, err := h.bindInput(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer in.close()

	result, err := h.updateUseCase.Execute(c.Request.Context(), appbook.UpdateBookRequest{
		ID:     id,
		Fields: in.fields,
		Cover:  book.CoverChange{Upload: in.upload, Clear: in.clear},
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Description  删除图书记录，同时删除封面文件
// @Tags         馆员-图书
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "图书ID"
// @Success      200 {object} response.Response{data=dto.DeleteBookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/librarian/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.deleteUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto.DeleteBookResponse{ID: id})
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id  path  int  true  "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookDTO}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  公开接口，支持关键词搜索和排序；不传page_size返回全部
// @Tags         图书
// @Produce      json
// @Param        keyword    query string false "关键词（书名/作者/ISBN）"
// @Param        sort_by    query string false "title_asc | published_desc | created_at_desc"
// @Param        page       query int    false "页码"
// @Param        page_size  query int    false "每页数量（最大100）"
// @Success      200 {object} response.Response{data=response.PageData{list=[]appbook.BookDTO}}
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.listUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		SortBy:   req.SortBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, result.List, result.Total, result.Page, result.PageSize)
}

// =========================================
// 请求解析
// =========================================

// bookInput 写操作的请求内容
type bookInput struct {
	fields book.Fields
	upload *book.Upload
	clear  bool
	close  func()
}

// bindInput 按Content-Type解析写操作请求
func (h *BookHandler) bindInput(c *gin.Context) (*bookInput, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodyBytes)
	in := &bookInput{close: func() {}}

	switch c.ContentType() {
	case binding.MIMEJSON:
		var req dto.BookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, bindError(err, apperrors.ErrBodyTooLarge)
		}
		in.fields = req.ToFields()
		in.clear = req.ClearCover()

	case binding.MIMEMultipartPOSTForm:
		form, err := c.MultipartForm()
		if err != nil {
			return nil, bindError(err, book.ErrCoverTooLarge)
		}
		in.fields = dto.FieldsFromForm(form.Value)

		if files := form.File[dto.FormCoverImage]; len(files) > 0 {
			f, err := files[0].Open()
			if err != nil {
				_ = form.RemoveAll()
				return nil, apperrors.WrapCode(err, apperrors.ErrCodeStorageError, "读取上传文件失败")
			}
			in.upload = &book.Upload{Filename: files[0].Filename, Content: f}
			in.close = func() {
				_ = f.Close()
				_ = form.RemoveAll()
			}
		} else {
			in.clear = dto.ClearCoverInForm(form.Value)
			in.close = func() { _ = form.RemoveAll() }
		}

	case binding.MIMEPOSTForm:
		if err := c.Request.ParseForm(); err != nil {
			return nil, bindError(err, apperrors.ErrBodyTooLarge)
		}
		in.fields = dto.FieldsFromForm(c.Request.PostForm)
		in.clear = dto.ClearCoverInForm(c.Request.PostForm)

	default:
		return nil, apperrors.New(apperrors.ErrCodeBindError, "不支持的Content-Type: "+c.ContentType())
	}

	return in, nil
}

// bindError 绑定失败；超过请求体上限时返回tooLarge
// 只有multipart请求可能携带封面，其余格式超限是请求体过大
func bindError(err error, tooLarge error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return tooLarge
	}
	return apperrors.New(apperrors.ErrCodeBindError, "参数错误: "+err.Error())
}

// parseID 解析路径中的图书ID
func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.Invalid("无效的图书ID")
	}
	return uint(id), nil
}
