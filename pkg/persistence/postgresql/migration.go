package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Create workflows table holding one snapshot document per workflow
			CREATE TABLE workflows (
				id VARCHAR(255) PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				snapshot JSONB NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
				deleted_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX idx_workflows_created_at ON workflows(created_at);
			CREATE INDEX idx_workflows_deleted_at ON workflows(deleted_at);
		`,
		2: `
			-- Node and edge counts let listings show graph size without decoding snapshots
			ALTER TABLE workflows
				ADD COLUMN node_count INTEGER NOT NULL DEFAULT 0,
				ADD COLUMN edge_count INTEGER NOT NULL DEFAULT 0;

			CREATE INDEX idx_workflows_updated_at ON workflows(updated_at);
			CREATE INDEX idx_workflows_name ON workflows(LOWER(name));
		`,
	}
}
