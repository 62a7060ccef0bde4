package store

import (
	"context"
	"fmt"
)

// Warehouse is one warehouse as the admin endpoints return it.
type Warehouse struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Location string    `json:"location"`
	Products []Product `json:"products"`
}

// InventoryRecord is one inventory audit entry.
type InventoryRecord struct {
	ID            int64  `json:"id"`
	OperationType string `json:"operationType"`
	ProductID     int64  `json:"productId"`
	ProductName   string `json:"productName"`
	WarehouseID   int64  `json:"warehouseId"`
	WarehouseName string `json:"warehouseName"`
	Quantity      int    `json:"quantity"`
	OrderID       int64  `json:"orderId"`
	StockBefore   int    `json:"stockBefore"`
	StockAfter    int    `json:"stockAfter"`
	OperationTime string `json:"operationTime"`
	Reason        string `json:"reason"`
	Status        string `json:"status"`
	ErrorMessage  string `json:"errorMessage"`
}

// AllOrders lists every order (admin dashboard).
func (c *Client) AllOrders(ctx context.Context) ([]Order, error) {
	var resp []Order
	if err := c.api.Get(ctx, "/orders", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Warehouses lists every warehouse with its products.
func (c *Client) Warehouses(ctx context.Context) ([]Warehouse, error) {
	var resp []Warehouse
	if err := c.api.Get(ctx, "/warehouses", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// OutTransactions returns all outbound inventory transactions for the
// audit report.
func (c *Client) OutTransactions(ctx context.Context) ([]InventoryRecord, error) {
	var resp []InventoryRecord
	if err := c.api.Get(ctx, "/warehouses/audit-logs/out-transactions", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// OrderInventoryRecords returns the inventory records tied to one order.
func (c *Client) OrderInventoryRecords(ctx context.Context, orderID int64) ([]InventoryRecord, error) {
	var resp []InventoryRecord
	path := fmt.Sprintf("/orders/%d/inventory-records", orderID)
	if err := c.api.Get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// WarehouseInventoryRecords returns the inventory records for one warehouse.
func (c *Client) WarehouseInventoryRecords(ctx context.Context, warehouseID int64) ([]InventoryRecord, error) {
	var resp []InventoryRecord
	path := fmt.Sprintf("/warehouses/%d/inventory-records", warehouseID)
	if err := c.api.Get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ProductInventoryRecords returns the inventory records for one product.
func (c *Client) ProductInventoryRecords(ctx context.Context, productID int64) ([]InventoryRecord, error) {
	var resp []InventoryRecord
	path := fmt.Sprintf("/products/%d/inventory-records", productID)
	if err := c.api.Get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
