package repository

import "gorm.io/gorm"

// cleanupBatchSize caps how many rows a single delete statement may remove.
const cleanupBatchSize = 500

// deleteInBatches hard-deletes rows matching cond in batches, returning the
// total removed. IDs are selected first so the delete itself stays a plain
// IN clause that every supported database accepts.
func deleteInBatches(db *gorm.DB, model interface{}, cond string, args ...interface{}) (int64, error) {
	var total int64
	for {
		var ids []uint
		if err := db.Model(model).Unscoped().Where(cond, args...).
			Limit(cleanupBatchSize).Pluck("id", &ids).Error; err != nil {
			return total, err
		}
		if len(ids) == 0 {
			return total, nil
		}
		res := db.Unscoped().Where("id IN ?", ids).Delete(model)
		if res.Error != nil {
			return total, res.Error
		}
		total += res.RowsAffected
		if len(ids) < cleanupBatchSize {
			return total, nil
		}
	}
}
