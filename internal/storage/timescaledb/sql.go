package timescaledb

const createTableSQL = `CREATE TABLE IF NOT EXISTS thermocline_features (
    time TIMESTAMPTZ NOT NULL,
    id UUID NOT NULL,
    profile TEXT NOT NULL,
    trm_segment DOUBLE PRECISION NULL,
    lep_segment DOUBLE PRECISION NULL,
    uhy_segment DOUBLE PRECISION NULL,
    trm_hmm DOUBLE PRECISION NULL,
    lep_hmm DOUBLE PRECISION NULL,
    uhy_hmm DOUBLE PRECISION NULL,
    trm_threshold DOUBLE PRECISION NULL,
    lep_threshold DOUBLE PRECISION NULL,
    uhy_threshold DOUBLE PRECISION NULL,
    trm_gradient_segment DOUBLE PRECISION NULL,
    trm_num_segment DOUBLE PRECISION NULL,
    trm_idx DOUBLE PRECISION NULL,
    double_trm DOUBLE PRECISION NULL,
    positive_gradient DOUBLE PRECISION NULL,
    first_segment_gradient DOUBLE PRECISION NULL,
    last_segment_gradient DOUBLE PRECISION NULL,
    last_but_two_segment_gradient DOUBLE PRECISION NULL,
    PRIMARY KEY (id, time)
);`

const createExtensionSQL = `CREATE EXTENSION IF NOT EXISTS timescaledb;`

const createHypertableSQL = `SELECT create_hypertable('thermocline_features', 'time', if_not_exists => true);`

const createProfileIndexSQL = `CREATE INDEX IF NOT EXISTS thermocline_features_profile_idx ON thermocline_features (profile, time DESC);`
