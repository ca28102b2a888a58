package sqlstore

const createTitlesSQL = `
CREATE TABLE IF NOT EXISTS titles (
  namespace VARCHAR(16)  NOT NULL,
  code      VARCHAR(64)  NOT NULL,
  title     VARCHAR(255) NOT NULL,
  PRIMARY KEY (namespace, code)
)`

// stay_date is an ISO date string so all three databases compare it the same way.
const createSnapshotSQL = `
CREATE TABLE IF NOT EXISTS snapshot (
  stay_date  CHAR(10)    NOT NULL,
  hotel_code VARCHAR(64) NOT NULL,
  room_code  VARCHAR(64) NOT NULL,
  available  INTEGER     NOT NULL,
  PRIMARY KEY (stay_date, hotel_code, room_code)
)`

const createHistoryMySQL = `
CREATE TABLE IF NOT EXISTS availability_history (
  id         BIGINT AUTO_INCREMENT PRIMARY KEY,
  sampled_at VARCHAR(40) NOT NULL,
  stay_date  CHAR(10)    NOT NULL,
  hotel_code VARCHAR(64) NOT NULL,
  room_code  VARCHAR(64) NOT NULL,
  available  INTEGER     NOT NULL,
  price      DOUBLE      NULL,
  updated    VARCHAR(64) NOT NULL DEFAULT ''
)`

const createHistoryPostgres = `
CREATE TABLE IF NOT EXISTS availability_history (
  id         BIGSERIAL PRIMARY KEY,
  sampled_at VARCHAR(40) NOT NULL,
  stay_date  CHAR(10)    NOT NULL,
  hotel_code VARCHAR(64) NOT NULL,
  room_code  VARCHAR(64) NOT NULL,
  available  INTEGER     NOT NULL,
  price      DOUBLE PRECISION,
  updated    VARCHAR(64) NOT NULL DEFAULT ''
)`

const createHistorySQLite = `
CREATE TABLE IF NOT EXISTS availability_history (
  id         INTEGER PRIMARY KEY AUTOINCREMENT,
  sampled_at TEXT    NOT NULL,
  stay_date  TEXT    NOT NULL,
  hotel_code TEXT    NOT NULL,
  room_code  TEXT    NOT NULL,
  available  INTEGER NOT NULL,
  price      REAL,
  updated    TEXT    NOT NULL DEFAULT ''
)`

const insertTitlesPrefix = "INSERT INTO titles (namespace, code, title) VALUES "

const selectTitlesSQL = `SELECT namespace, code, title FROM titles ORDER BY namespace, code`

const selectSnapshotSQL = `SELECT stay_date, hotel_code, room_code, available FROM snapshot`

const deleteSnapshotSQL = `DELETE FROM snapshot`

const insertSnapshotPrefix = "INSERT INTO snapshot (stay_date, hotel_code, room_code, available) VALUES "

const insertHistoryPrefix = "INSERT INTO availability_history\n  (sampled_at, stay_date, hotel_code, room_code, available, price, updated)\nVALUES "
