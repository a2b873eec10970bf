package service

import (
	"bytes"
	"context"
	"edu_portal/internal/apiclient"
	"edu_portal/internal/model"
	"edu_portal/internal/util"
	"encoding/csv"
	"io"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const maxRosterSize = 5 << 20

type StudentService struct {
	Client *apiclient.Client
}

func NewStudentService(client *apiclient.Client) *StudentService {
	return &StudentService{Client: client}
}

type StudentFilter struct {
	GradeLevel int
	ClassName  string
}

func (s *StudentService) List(ctx context.Context, filter StudentFilter) ([]model.StudentSummary, error) {
	q := url.Values{}
	if filter.GradeLevel > 0 {
		q.Set("grade_level", strconv.Itoa(filter.GradeLevel))
	}
	if filter.ClassName != "" {
		q.Set("class_name", filter.ClassName)
	}
	records, err := fetchRecords(ctx, s.Client, get("/students", q), "students")
	if err != nil {
		return nil, err
	}
	students := make([]model.StudentSummary, 0, len(records))
	for _, r := range records {
		students = append(students, model.StudentFromRecord(r))
	}
	return students, nil
}

// UploadRoster 上传学生名单；.xlsx 先在本地转成 CSV
func (s *StudentService) UploadRoster(ctx context.Context, filename string, r io.Reader) (*model.StudentUploadResult, error) {
	if strings.TrimSpace(filename) == "" || r == nil {
		return nil, util.Required("file")
	}
	content, err := io.ReadAll(io.LimitReader(r, maxRosterSize+1))
	if err != nil {
		return nil, err
	}
	if len(content) > maxRosterSize {
		return nil, util.ErrFileTooLarge
	}

	csvName := filepath.Base(filename)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
	case ".xlsx":
		content, err = RosterCSVFromXLSX(bytes.NewReader(content))
		if err != nil {
			return nil, err
		}
		csvName = strings.TrimSuffix(csvName, filepath.Ext(csvName)) + ".csv"
	default:
		return nil, util.ErrUnsupportedRoster
	}

	rows, err := countRosterRows(content)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, util.ErrEmptyRoster
	}

	form := apiclient.NewMultipart().File("file", csvName, bytes.NewReader(content))
	var rec model.Record
	if err := s.Client.Upload(ctx, "/students/upload-csv", form, &rec); err != nil {
		return nil, err
	}
	res := model.StudentUploadResultFromRecord(rec)
	res.Rows = rows
	return &res, nil
}

// RosterCSVFromXLSX 读取第一个工作表，跳过空行
func RosterCSVFromXLSX(r io.Reader) ([]byte, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &util.ValidationError{Field: "file", Message: "could not read spreadsheet: " + err.Error()}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, util.ErrEmptyRoster
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range rows {
		if blankRow(row) {
			continue
		}
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.TrimSpace(c)
		}
		if err := w.Write(cells); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// countRosterRows 不含表头的非空数据行数
func countRosterRows(content []byte) (int, error) {
	rd := csv.NewReader(bytes.NewReader(content))
	rd.FieldsPerRecord = -1
	records, err := rd.ReadAll()
	if err != nil {
		return 0, &util.ValidationError{Field: "file", Message: "invalid CSV: " + err.Error()}
	}
	n := 0
	for _, rec := range records {
		if !blankRow(rec) {
			n++
		}
	}
	if n > 0 {
		n--
	}
	return n, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
