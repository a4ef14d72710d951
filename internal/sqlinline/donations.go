package sqlinline

const QListSeasonRankings = `--sql 8e6c5230-7642-45de-9dbd-7af8e18b3a9b
select id, season_id, rank, donor_name, total_amount, donation_count, updated_at
from season_rankings
where season_id = $1::bigint
order by rank;
`

const QListLifetimeRankings = `--sql 25ab464a-f0a9-494c-a729-cb14497a0237
select id, rank, donor_name, total_amount, donation_count, is_permanent_vip, updated_at
from lifetime_rankings
order by rank;
`

const QSelectLifetimeRankByName = `--sql 5366645a-a81f-403a-b23e-ad7cf6f1e13d
select rank, is_permanent_vip
from lifetime_rankings
where lower(donor_name) = lower($1::text);
`

const QListRecentDonations = `--sql 944ec6ec-638b-4278-bb08-5dad7cc9d87b
select id, donor_profile_id, donor_name, amount, coalesce(message, ''), season_id, created_at
from donations
order by created_at desc
limit $1::int;
`
