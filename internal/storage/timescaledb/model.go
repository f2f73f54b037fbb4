package timescaledb

import (
	"time"

	"github.com/google/uuid"

	"github.com/chrissnell/thermocline/internal/storage"
	"github.com/chrissnell/thermocline/internal/thermocline"
)

// FeatureRow is the database row of one detection result
type FeatureRow struct {
	Time    time.Time `gorm:"column:time;primaryKey"`
	ID      uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Profile string    `gorm:"column:profile"`

	TRMSegment   *float64 `gorm:"column:trm_segment"`
	LEPSegment   *float64 `gorm:"column:lep_segment"`
	UHYSegment   *float64 `gorm:"column:uhy_segment"`
	TRMHMM       *float64 `gorm:"column:trm_hmm"`
	LEPHMM       *float64 `gorm:"column:lep_hmm"`
	UHYHMM       *float64 `gorm:"column:uhy_hmm"`
	TRMThreshold *float64 `gorm:"column:trm_threshold"`
	LEPThreshold *float64 `gorm:"column:lep_threshold"`
	UHYThreshold *float64 `gorm:"column:uhy_threshold"`

	TRMGradientSegment        *float64 `gorm:"column:trm_gradient_segment"`
	TRMNumSegment             *float64 `gorm:"column:trm_num_segment"`
	TRMIdx                    *float64 `gorm:"column:trm_idx"`
	DoubleTRM                 *float64 `gorm:"column:double_trm"`
	PositiveGradient          *float64 `gorm:"column:positive_gradient"`
	FirstSegmentGradient      *float64 `gorm:"column:first_segment_gradient"`
	LastSegmentGradient       *float64 `gorm:"column:last_segment_gradient"`
	LastButTwoSegmentGradient *float64 `gorm:"column:last_but_two_segment_gradient"`
}

// TableName specifies the table name for FeatureRow
func (FeatureRow) TableName() string {
	return "thermocline_features"
}

func rowFromRecord(r storage.Record) FeatureRow {
	f := r.Features
	return FeatureRow{
		Time:                      r.CreatedAt,
		ID:                        r.ID,
		Profile:                   r.Profile,
		TRMSegment:                f.TRMSegment,
		LEPSegment:                f.LEPSegment,
		UHYSegment:                f.UHYSegment,
		TRMHMM:                    f.TRMHMM,
		LEPHMM:                    f.LEPHMM,
		UHYHMM:                    f.UHYHMM,
		TRMThreshold:              f.TRMThreshold,
		LEPThreshold:              f.LEPThreshold,
		UHYThreshold:              f.UHYThreshold,
		TRMGradientSegment:        f.TRMGradientSegment,
		TRMNumSegment:             f.TRMNumSegment,
		TRMIdx:                    f.TRMIdx,
		DoubleTRM:                 f.DoubleTRM,
		PositiveGradient:          f.PositiveGradient,
		FirstSegmentGradient:      f.FirstSegmentGradient,
		LastSegmentGradient:       f.LastSegmentGradient,
		LastButTwoSegmentGradient: f.LastButTwoSegmentGradient,
	}
}

func (row FeatureRow) record() storage.Record {
	return storage.Record{
		ID:        row.ID,
		Profile:   row.Profile,
		CreatedAt: row.Time,
		Features: thermocline.FeatureRecord{
			TRMSegment:                row.TRMSegment,
			LEPSegment:                row.LEPSegment,
			UHYSegment:                row.UHYSegment,
			TRMHMM:                    row.TRMHMM,
			LEPHMM:                    row.LEPHMM,
			UHYHMM:                    row.UHYHMM,
			TRMThreshold:              row.TRMThreshold,
			LEPThreshold:              row.LEPThreshold,
			UHYThreshold:              row.UHYThreshold,
			TRMGradientSegment:        row.TRMGradientSegment,
			TRMNumSegment:             row.TRMNumSegment,
			TRMIdx:                    row.TRMIdx,
			DoubleTRM:                 row.DoubleTRM,
			PositiveGradient:          row.PositiveGradient,
			FirstSegmentGradient:      row.FirstSegmentGradient,
			LastSegmentGradient:       row.LastSegmentGradient,
			LastButTwoSegmentGradient: row.LastButTwoSegmentGradient,
		},
	}
}
