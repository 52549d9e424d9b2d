package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"product-engine/internal/clients"
	"product-engine/internal/domain"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

type AgreementRegisterStore interface {
	ListRegister(ctx context.Context) ([]domain.AgreementRegisterRow, error)
}

// ExportStatus is the redis-persisted state of one register export.
type ExportStatus struct {
	Key      string    `json:"key"`
	Type     string    `json:"type"`
	Fields   []string  `json:"fields"`
	Progress float64   `json:"progress"`
	FileURL  *string   `json:"file_url"`
	Error    string    `json:"error,omitempty"`
	Created  time.Time `json:"created_at"`
}

const (
	exportSetKey = "export_ids"
	exportTTL    = 20 * time.Minute
)

// RegisterExportService generates XLSX snapshots of the agreements register.
// Generation runs detached from the request; progress lives in redis and is
// pushed over the websocket hub.
type RegisterExportService struct {
	repo    AgreementRegisterStore
	redis   *clients.RedisClient
	storage *clients.StorageClient
	s3      *clients.S3Client
	ws      *clients.WebSocketClient
}

func NewRegisterExportService(
	repo AgreementRegisterStore,
	redis *clients.RedisClient,
	storage *clients.StorageClient,
	s3 *clients.S3Client,
	ws *clients.WebSocketClient,
) *RegisterExportService {
	return &RegisterExportService{
		repo:    repo,
		redis:   redis,
		storage: storage,
		s3:      s3,
		ws:      ws,
	}
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

type registerColumn struct {
	Header string
	Value  func(r domain.AgreementRegisterRow) any
}

var registerColumns = map[string]registerColumn{
	"agreement_id": {
		Header: "Agreement ID",
		Value:  func(r domain.AgreementRegisterRow) any { return r.AgreementID },
	},
	"client.full_name": {
		Header: "Client",
		Value: func(r domain.AgreementRegisterRow) any {
			parts := []string{r.ClientSurname, r.ClientName, strOrEmpty(r.ClientPatronymic)}
			return strings.TrimSpace(strings.Join(parts, " "))
		},
	},
	"client.passport": {
		Header: "Passport",
		Value:  func(r domain.AgreementRegisterRow) any { return r.ClientPassport },
	},
	"product.code": {
		Header: "Product code",
		Value:  func(r domain.AgreementRegisterRow) any { return r.ProductCode },
	},
	"product.name": {
		Header: "Product",
		Value:  func(r domain.AgreementRegisterRow) any { return r.ProductName },
	},
	"load_term": {
		Header: "Term, months",
		Value:  func(r domain.AgreementRegisterRow) any { return r.LoadTerm },
	},
	"principal_amount": {
		Header: "Principal amount",
		Value:  func(r domain.AgreementRegisterRow) any { return r.PrincipalAmount },
	},
	"interest": {
		Header: "Interest, %",
		Value:  func(r domain.AgreementRegisterRow) any { return r.Interest },
	},
	"origination_amount": {
		Header: "Origination amount",
		Value:  func(r domain.AgreementRegisterRow) any { return r.OriginationAmount },
	},
	"activation_dttm": {
		Header: "Activated at",
		Value: func(r domain.AgreementRegisterRow) any {
			return r.ActivationDttm.Format("2006-01-02 15:04:05")
		},
	},
	"agreement_status": {
		Header: "Status",
		Value:  func(r domain.AgreementRegisterRow) any { return r.AgreementStatus },
	},
}

func (s *RegisterExportService) saveStatus(ctx context.Context, st *ExportStatus) error {
	if s.redis == nil {
		return nil
	}

	data, err := json.Marshal(st)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, st.Key, string(data), exportTTL); err != nil {
		return err
	}

	return s.redis.SAdd(ctx, exportSetKey, st.Key)
}

// StartAgreementsExport registers a new export and kicks off generation in
// the background. It returns the export id immediately.
func (s *RegisterExportService) StartAgreementsExport(ctx context.Context, selected []string) (string, error) {
	if len(selected) == 0 {
		selected = []string{
			"agreement_id",
			"client.full_name",
			"product.code",
			"principal_amount",
			"agreement_status",
		}
	}

	exportID := fmt.Sprintf("exports:%s", uuid.NewString())

	status := &ExportStatus{
		Key:      exportID,
		Type:     "agreements",
		Fields:   selected,
		Progress: 0,
		FileURL:  nil,
		Created:  time.Now(),
	}

	_ = s.saveStatus(ctx, status)

	// detached from the request context: the export outlives the caller
	go s.runAgreementsExport(context.Background(), status)

	return exportID, nil
}

func (s *RegisterExportService) fail(ctx context.Context, st *ExportStatus, msg string) {
	st.Error = msg
	_ = s.saveStatus(ctx, st)
	if s.ws != nil {
		_ = s.ws.NotifyExportFailed(ctx, st.Key, msg)
	}
}

func (s *RegisterExportService) runAgreementsExport(ctx context.Context, st *ExportStatus) {
	rows, err := s.repo.ListRegister(ctx)
	if err != nil {
		s.fail(ctx, st, "failed to read agreements register")
		return
	}

	var cols []registerColumn
	for _, key := range st.Fields {
		col, ok := registerColumns[key]
		if !ok {
			continue
		}
		cols = append(cols, col)
	}
	if len(cols) == 0 {
		s.fail(ctx, st, "no known fields selected")
		return
	}

	f := excelize.NewFile()
	sheet := "Agreements"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for i, col := range cols {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, col.Header)
	}

	total := len(rows)
	const chunkSize = 500

	for i, row := range rows {
		for colIdx, col := range cols {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, i+2)
			_ = f.SetCellValue(sheet, cell, col.Value(row))
		}

		if (i+1)%chunkSize == 0 || i == total-1 {
			progress := math.Round(float64(i+1) / float64(total) * 100.0)
			// 100% is reserved for "file ready"
			if progress >= 100 {
				progress = 95
			}

			st.Progress = progress
			_ = s.saveStatus(ctx, st)

			if s.ws != nil {
				_ = s.ws.NotifyExportProgress(ctx, st.Key, progress, "generating")
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.fail(ctx, st, "failed to build xlsx")
		return
	}

	fileName := fmt.Sprintf("agreements_%s.xlsx", time.Now().Format("20060102_150405"))

	url, err := s.deliver(ctx, st, fileName, buf.Bytes())
	if err != nil {
		s.fail(ctx, st, "failed to store export file")
		return
	}

	st.FileURL = &url
	st.Progress = 100
	_ = s.saveStatus(ctx, st)

	if s.ws != nil {
		_ = s.ws.NotifyExportProgress(ctx, st.Key, 100, "ready")
		_ = s.ws.NotifyExportComplete(ctx, st.Key, url, fileName)
	}
}

// deliver puts the file into S3 when configured, local storage otherwise,
// and returns a download URL.
func (s *RegisterExportService) deliver(ctx context.Context, st *ExportStatus, fileName string, data []byte) (string, error) {
	st.Progress = 95
	_ = s.saveStatus(ctx, st)
	if s.ws != nil {
		_ = s.ws.NotifyExportProgress(ctx, st.Key, 95, "uploading")
	}

	if s.s3 != nil {
		key, err := s.s3.UploadXLSX(ctx, fileName, data)
		if err != nil {
			return "", err
		}
		return s.s3.GetTemporaryURL(ctx, key, 48*time.Hour)
	}

	if s.storage == nil {
		return "", fmt.Errorf("no export storage configured")
	}

	saved, err := s.storage.Save(ctx, fileName, data)
	if err != nil {
		return "", err
	}
	return s.storage.GetURL(saved), nil
}
