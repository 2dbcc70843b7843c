package sqlinline

const QInsertCatch = `--sql 8550591c-883d-45a7-a2a4-7155fd6b0945
insert into catches (id, user_id, fish_type, quantity_kg, location, price_analysis, created_at)
values ($1, $2, $3, $4, $5, $6, $7);
`

const QListCatchesByUser = `--sql 1438b530-5fbe-4ab0-9a12-5741cbe5cd28
select id, user_id, fish_type, quantity_kg, location, price_analysis, created_at
from catches
where user_id = $1
order by created_at;
`

const QListCatches = `--sql c66013ec-d537-40c6-bb0a-4d36103dc21e
select id, user_id, fish_type, quantity_kg, location, price_analysis, created_at
from catches
order by created_at;
`
