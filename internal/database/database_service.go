// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// DBService implements the managers of this package on top of a GORM connection.
type DBService struct {
	DB *gorm.DB
}

var (
	_ DocumentHandlerManager  = (*DBService)(nil)
	_ DocumentAnalyzerManager = (*DBService)(nil)
)

func (d *DBService) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
