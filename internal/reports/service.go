package reports

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/palletline/wms-backend/internal/activity"
	"github.com/palletline/wms-backend/internal/clients"
	"github.com/palletline/wms-backend/internal/goodsreceived"
	"github.com/palletline/wms-backend/internal/inventory"
	"github.com/palletline/wms-backend/internal/shipments"
	"github.com/palletline/wms-backend/pkg/db/models"
	apperrors "github.com/palletline/wms-backend/pkg/errors"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"

	activityExportLimit = 1000
)

// Export is a rendered CSV document ready to send.
type Export struct {
	FileName string
	Body     []byte
}

// Service renders entity collections as CSV exports.
type Service interface {
	Export(ctx context.Context, entity string) (*Export, error)
}

type service struct {
	clients       clients.Repository
	inventory     inventory.Repository
	goodsReceived goodsreceived.Repository
	shipments     shipments.Repository
	activity      activity.Repository
}

// NewService wires a report service over the entity repositories.
func NewService(
	clientsRepo clients.Repository,
	inventoryRepo inventory.Repository,
	goodsReceivedRepo goodsreceived.Repository,
	shipmentsRepo shipments.Repository,
	activityRepo activity.Repository,
) (Service, error) {
	if clientsRepo == nil || inventoryRepo == nil || goodsReceivedRepo == nil || shipmentsRepo == nil || activityRepo == nil {
		return nil, fmt.Errorf("all repositories are required")
	}
	return &service{
		clients:       clientsRepo,
		inventory:     inventoryRepo,
		goodsReceived: goodsReceivedRepo,
		shipments:     shipmentsRepo,
		activity:      activityRepo,
	}, nil
}

// Export builds the CSV for the named entity collection.
func (s *service) Export(ctx context.Context, entity string) (*Export, error) {
	var header []string
	var rows [][]string
	var err error

	switch entity {
	case "clients":
		header, rows, err = s.clientRows(ctx)
	case "inventory":
		header, rows, err = s.inventoryRows(ctx)
	case "goods-received":
		header, rows, err = s.goodsReceivedRows(ctx)
	case "shipments":
		header, rows, err = s.shipmentRows(ctx)
	case "activity":
		header, rows, err = s.activityRows(ctx)
	default:
		return nil, apperrors.New(apperrors.CodeNotFound, "unknown report")
	}
	if err != nil {
		return nil, err
	}

	return &Export{
		FileName: fmt.Sprintf("%s-%s.csv", entity, time.Now().UTC().Format(dateLayout)),
		Body:     Marshal(header, rows),
	}, nil
}

func (s *service) clientRows(ctx context.Context) ([]string, [][]string, error) {
	list, err := s.clients.List(ctx)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.CodeDependency, err, "listing clients")
	}
	header := []string{"Name", "Contact", "Phone", "Email", "Notes", "Custom Packaging", "Created"}
	rows := make([][]string, 0, len(list))
	for _, c := range list {
		rows = append(rows, []string{
			c.Name,
			c.Contact,
			c.Phone,
			c.Email,
			deref(c.Notes),
			deref(c.CustomPackaging),
			c.CreatedAt.UTC().Format(dateLayout),
		})
	}
	return header, rows, nil
}

func (s *service) inventoryRows(ctx context.Context) ([]string, [][]string, error) {
	list, err := s.inventory.List(ctx, nil)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.CodeDependency, err, "listing inventory")
	}
	header := []string{"SKU", "Name", "Client", "Quantity", "Min Stock", "Status", "Location", "Notes"}
	rows := make([][]string, 0, len(list))
	for _, item := range list {
		rows = append(rows, []string{
			item.SKU,
			item.Name,
			item.ClientName,
			strconv.Itoa(item.Quantity),
			strconv.Itoa(item.MinStock),
			stockStatus(item),
			deref(item.Location),
			deref(item.Notes),
		})
	}
	return header, rows, nil
}

func (s *service) goodsReceivedRows(ctx context.Context) ([]string, [][]string, error) {
	list, err := s.goodsReceived.List(ctx, nil)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.CodeDependency, err, "listing goods received")
	}
	header := []string{"Date Received", "Client", "Reference", "Pallets", "SKUs", "Total Units", "Status", "Notes"}
	rows := make([][]string, 0, len(list))
	for _, r := range list {
		rows = append(rows, []string{
			r.DateReceived.UTC().Format(dateLayout),
			r.ClientName,
			r.ReferenceID,
			strconv.Itoa(r.NumberOfPallets),
			strconv.Itoa(r.NumberOfSkus),
			strconv.Itoa(r.TotalUnits),
			r.Status.String(),
			deref(r.Notes),
		})
	}
	return header, rows, nil
}

func (s *service) shipmentRows(ctx context.Context) ([]string, [][]string, error) {
	list, err := s.shipments.List(ctx, nil)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.CodeDependency, err, "listing shipments")
	}
	header := []string{"Date", "Client", "Type", "Mode", "Units", "Pallets", "Status", "Destination", "Carrier", "Tracking", "Notes"}
	rows := make([][]string, 0, len(list))
	for _, sh := range list {
		rows = append(rows, []string{
			sh.Date.UTC().Format(dateLayout),
			sh.ClientName,
			sh.ShipmentType.String(),
			sh.ShipmentMode.String(),
			strconv.Itoa(sh.NumberOfUnits),
			strconv.Itoa(sh.NumberOfPallets),
			sh.Status.String(),
			deref(sh.Destination),
			deref(sh.Carrier),
			deref(sh.TrackingNumber),
			deref(sh.Notes),
		})
	}
	return header, rows, nil
}

func (s *service) activityRows(ctx context.Context) ([]string, [][]string, error) {
	list, err := s.activity.List(ctx, activityExportLimit)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.CodeDependency, err, "listing activity")
	}
	header := []string{"Timestamp", "User", "Email", "Action", "Collection", "Document", "Details"}
	rows := make([][]string, 0, len(list))
	for _, entry := range list {
		rows = append(rows, []string{
			entry.Timestamp.UTC().Format(dateTimeLayout),
			entry.UserName,
			entry.UserEmail,
			entry.Action.String(),
			entry.Collection,
			entry.DocumentName,
			entry.Details,
		})
	}
	return header, rows, nil
}

func stockStatus(item models.InventoryItem) string {
	switch {
	case item.IsOutOfStock():
		return "Out of Stock"
	case item.IsLowStock():
		return "Low Stock"
	default:
		return "In Stock"
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
